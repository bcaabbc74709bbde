package store

import "fmt"

// Store is a physical Wegmans location. Hours are 4-digit 24-hour integers (0730, 2200).
type Store struct {
	ID        string `db:"id" json:"id"`
	Street    string `db:"street" json:"street,omitempty"`
	City      string `db:"city" json:"city,omitempty"`
	State     string `db:"state" json:"state"`
	Zip       string `db:"zip" json:"zip,omitempty"`
	OpenTime  int    `db:"opentime" json:"open_time"`
	CloseTime int    `db:"closetime" json:"close_time"`
}

// Hours renders the opening window as "0700-2300".
func (s Store) Hours() string {
	return fmt.Sprintf("%04d-%04d", s.OpenTime, s.CloseTime)
}

// Address joins the non-empty address fields.
func (s Store) Address() string {
	addr := s.Street
	if s.City != "" {
		if addr != "" {
			addr += ", "
		}
		addr += s.City
	}
	if s.State != "" {
		if addr != "" {
			addr += ", "
		}
		addr += s.State
	}
	if s.Zip != "" {
		addr += " " + s.Zip
	}
	return addr
}
