package model

import "github.com/shopspring/decimal"

// Garage is a partner workshop performing technician installs.
type Garage struct {
	ID       int64
	Name     string
	Location string
	County   string
	Phone    string
	Email    string
	Rating   decimal.Decimal
	IsActive bool
}
