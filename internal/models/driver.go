package models

import (
	"fmt"
	"strings"
)

type CommissionType string

const (
	CommissionFixed    CommissionType = "fixed"
	CommissionVariable CommissionType = "variable"
)

type DriverStatus string

const (
	DriverActive    DriverStatus = "active"
	DriverInactive  DriverStatus = "inactive"
	DriverSuspended DriverStatus = "suspended"
)

type DocumentType string

const (
	DocumentLicense      DocumentType = "license"
	DocumentTVDECert     DocumentType = "tvde_cert"
	DocumentIDCard       DocumentType = "id_card"
	DocumentAddressProof DocumentType = "address_proof"
)

type DocumentStatus string

const (
	DocumentValid    DocumentStatus = "valid"
	DocumentExpired  DocumentStatus = "expired"
	DocumentPending  DocumentStatus = "pending"
	DocumentRejected DocumentStatus = "rejected"
)

// DriverDocument is a compliance document attached to a driver
type DriverDocument struct {
	ID         string         `json:"id"`
	DriverID   string         `json:"driver_id"`
	Type       DocumentType   `json:"type"`
	URL        string         `json:"url"`
	ExpiryDate string         `json:"expiry_date,omitempty"`
	Status     DocumentStatus `json:"status"`
}

// Driver is a TVDE driver working for the fleet.
// CommissionValue is a currency amount when CommissionType is fixed and
// percentage points when it is variable.
type Driver struct {
	ID               string           `json:"id"`
	FullName         string           `json:"full_name"`
	NIF              string           `json:"nif"`
	IBAN             string           `json:"iban"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	EntryDate        string           `json:"entry_date"`
	Status           DriverStatus     `json:"status"`
	AcceptanceRate   float64          `json:"acceptance_rate"`
	CancellationRate float64          `json:"cancellation_rate"`
	RatingUber       float64          `json:"rating_uber"`
	RatingBolt       float64          `json:"rating_bolt"`
	Category         string           `json:"category"`
	PhotoURL         string           `json:"photo_url,omitempty"`
	Documents        []DriverDocument `json:"documents"`
	CommissionType   CommissionType   `json:"commission_type"`
	CommissionValue  float64          `json:"commission_value"`
	UberUUID         string           `json:"uber_uuid,omitempty"`
	BoltID           string           `json:"bolt_id,omitempty"`
	PasswordHash     string           `json:"password_hash,omitempty"`
}

// Validate checks the driver invariants, most importantly that the
// commission value is interpreted according to its type.
func (d *Driver) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	switch d.Status {
	case DriverActive, DriverInactive, DriverSuspended:
	default:
		return fmt.Errorf("%w: unknown driver status %q", ErrValidation, d.Status)
	}
	switch d.CommissionType {
	case CommissionFixed:
		if d.CommissionValue < 0 {
			return fmt.Errorf("%w: fixed commission must be non-negative", ErrValidation)
		}
	case CommissionVariable:
		if d.CommissionValue < 0 || d.CommissionValue > 100 {
			return fmt.Errorf("%w: variable commission must be within [0,100]", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown commission type %q", ErrValidation, d.CommissionType)
	}
	return nil
}

// SameName reports whether name matches the driver's full name, ignoring case.
func (d *Driver) SameName(name string) bool {
	return strings.EqualFold(d.FullName, name)
}
