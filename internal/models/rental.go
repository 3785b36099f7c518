package models

import "strings"

type RentalStatus string

const (
	RentalAvailable   RentalStatus = "available"
	RentalRented      RentalStatus = "rented"
	RentalMaintenance RentalStatus = "maintenance"
)

// Rental offers a vehicle to drivers at a daily rate. InterestedDrivers holds
// the names of drivers waiting for an admin decision.
type Rental struct {
	ID                string       `json:"id"`
	VehicleID         string       `json:"vehicle_id"`
	DriverID          string       `json:"driver_id,omitempty"`
	DailyRate         float64      `json:"daily_rate"`
	SecurityDeposit   float64      `json:"security_deposit,omitempty"`
	Status            RentalStatus `json:"status"`
	InterestedDrivers []string     `json:"interested_drivers"`
	StartDate         string       `json:"start_date,omitempty"`
	EndDate           string       `json:"end_date,omitempty"`
}

// WeeklyCost is the amount charged to a driver per week of rental.
func (r *Rental) WeeklyCost() float64 {
	return r.DailyRate * 7
}

func (r *Rental) HasInterest(name string) bool {
	for _, n := range r.InterestedDrivers {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// RemoveInterest drops every entry equal to name.
func (r *Rental) RemoveInterest(name string) {
	kept := r.InterestedDrivers[:0]
	for _, n := range r.InterestedDrivers {
		if !strings.EqualFold(n, name) {
			kept = append(kept, n)
		}
	}
	r.InterestedDrivers = kept
}
