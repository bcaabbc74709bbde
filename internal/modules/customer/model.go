package customer

// Customer is a shopper identified by phone number.
type Customer struct {
	Phone     string `db:"phonenumber" json:"phone"`
	FirstName string `db:"firstname" json:"first_name"`
	LastName  string `db:"lastname" json:"last_name"`
}

// Name returns the customer's full name.
func (c *Customer) Name() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
