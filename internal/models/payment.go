package models

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
)

type Platform string

const (
	PlatformUber Platform = "uber"
	PlatformBolt Platform = "bolt"
)

// Payment is the net amount owed to a driver for one period. Net is computed
// from Gross, the driver's commission terms and approved expenses; it cannot be
// traced back to the source rows once stored.
type Payment struct {
	ID       string        `json:"id"`
	DriverID string        `json:"driver_id,omitempty"`
	Driver   string        `json:"driver"`
	Platform Platform      `json:"platform,omitempty"`
	Period   string        `json:"period"`
	Gross    float64       `json:"gross"`
	Net      float64       `json:"net"`
	Status   PaymentStatus `json:"status"`
	Date     string        `json:"date"`
}

// Commission is what was kept from the gross amount, shown as "Taxas Plataforma".
func (p *Payment) Commission() float64 {
	return p.Gross - p.Net
}
