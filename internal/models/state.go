package models

import "strings"

// State is the whole system of record. It is persisted as a single snapshot.
type State struct {
	Drivers       []Driver          `json:"drivers"`
	Vehicles      []Vehicle         `json:"vehicles"`
	Expenses      []Expense         `json:"expenses"`
	Rentals       []Rental          `json:"rentals"`
	Users         []User            `json:"users"`
	Payments      []Payment         `json:"payments"`
	Notifications []AppNotification `json:"notifications"`
	Settings      CompanySettings   `json:"settings"`
}

// Clone returns a deep copy so a mutation can be prepared without touching s.
func (s *State) Clone() *State {
	out := &State{
		Drivers:       make([]Driver, len(s.Drivers)),
		Vehicles:      make([]Vehicle, len(s.Vehicles)),
		Expenses:      append([]Expense{}, s.Expenses...),
		Rentals:       make([]Rental, len(s.Rentals)),
		Users:         make([]User, len(s.Users)),
		Payments:      append([]Payment{}, s.Payments...),
		Notifications: append([]AppNotification{}, s.Notifications...),
		Settings:      s.Settings,
	}
	for i, d := range s.Drivers {
		d.Documents = append([]DriverDocument{}, d.Documents...)
		out.Drivers[i] = d
	}
	for i, v := range s.Vehicles {
		v.Documents = append([]VehicleDocument{}, v.Documents...)
		v.History = append([]MaintenanceEntry(nil), v.History...)
		out.Vehicles[i] = v
	}
	for i, r := range s.Rentals {
		r.InterestedDrivers = append([]string{}, r.InterestedDrivers...)
		out.Rentals[i] = r
	}
	for i, u := range s.Users {
		u.Permissions = append([]string(nil), u.Permissions...)
		out.Users[i] = u
	}
	return out
}

// FindDriverByID returns the index of the driver with id, or -1.
func (s *State) FindDriverByID(id string) int {
	for i := range s.Drivers {
		if s.Drivers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) FindVehicleByID(id string) int {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == id {
			return i
		}
	}
	return -1
}

// FindVehicleByPlate matches plates ignoring case.
func (s *State) FindVehicleByPlate(plate string) int {
	for i := range s.Vehicles {
		if strings.EqualFold(s.Vehicles[i].Plate, plate) {
			return i
		}
	}
	return -1
}

func (s *State) FindExpense(id string) int {
	for i := range s.Expenses {
		if s.Expenses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) FindRental(id string) int {
	for i := range s.Rentals {
		if s.Rentals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) FindPayment(id string) int {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return i
		}
	}
	return -1
}

// FindDriversByName returns every driver whose name matches ignoring case.
func FindDriversByName(drivers []Driver, name string) []*Driver {
	var out []*Driver
	for i := range drivers {
		if drivers[i].SameName(name) {
			out = append(out, &drivers[i])
		}
	}
	return out
}

// DriverName resolves a weak driver reference for display.
func DriverName(drivers []Driver, id string) (string, bool) {
	for i := range drivers {
		if drivers[i].ID == id {
			return drivers[i].FullName, true
		}
	}
	return "", false
}

// VehiclePlate resolves a weak vehicle reference for display.
func VehiclePlate(vehicles []Vehicle, id string) (string, bool) {
	for i := range vehicles {
		if vehicles[i].ID == id {
			return vehicles[i].Plate, true
		}
	}
	return "", false
}
