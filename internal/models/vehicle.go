package models

import (
	"fmt"
	"strings"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

// VehicleDocument is a registration/insurance/inspection record for a vehicle
type VehicleDocument struct {
	ID         string         `json:"id"`
	VehicleID  string         `json:"vehicle_id"`
	Type       string         `json:"type"` // registration, insurance, green_card, inspection
	URL        string         `json:"url"`
	ExpiryDate string         `json:"expiry_date"`
	Status     DocumentStatus `json:"status"`
}

// MaintenanceEntry is one line of a vehicle's service history
type MaintenanceEntry struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// Vehicle is a fleet car. CurrentDriverID is a weak reference to a Driver.
type Vehicle struct {
	ID               string             `json:"id"`
	Brand            string             `json:"brand"`
	Model            string             `json:"model"`
	Year             int                `json:"year"`
	Plate            string             `json:"plate"`
	Category         string             `json:"category"`
	EntryDate        string             `json:"entry_date"`
	InsuranceExpiry  string             `json:"insurance_expiry"`
	InspectionExpiry string             `json:"inspection_expiry"`
	PolicyNumber     string             `json:"policy_number"`
	Status           VehicleStatus      `json:"status"`
	CurrentDriverID  string             `json:"current_driver_id,omitempty"`
	Documents        []VehicleDocument  `json:"documents"`
	History          []MaintenanceEntry `json:"history,omitempty"`
}

func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Plate) == "" {
		return fmt.Errorf("%w: plate is required", ErrValidation)
	}
	switch v.Status {
	case VehicleActive, VehicleMaintenance, VehicleInactive:
	default:
		return fmt.Errorf("%w: unknown vehicle status %q", ErrValidation, v.Status)
	}
	return nil
}
