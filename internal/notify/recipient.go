package notify

import (
	"strings"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// RecipientKind identifies who a message is addressed to.
type RecipientKind string

const (
	RecipientUser   RecipientKind = "user"
	RecipientAdmin  RecipientKind = "admin"
	RecipientGuest  RecipientKind = "guest"
	RecipientGarage RecipientKind = "garage"
)

// Recipient resolves a deliverable address.
type Recipient interface {
	Kind() RecipientKind
	Address() (string, bool)
	DisplayName() string
}

// UserRecipient addresses a registered account.
type UserRecipient struct {
	User model.User
}

func (r UserRecipient) Kind() RecipientKind {
	if r.User.IsAdmin() {
		return RecipientAdmin
	}
	return RecipientUser
}

func (r UserRecipient) Address() (string, bool) { return address(r.User.Email) }
func (r UserRecipient) DisplayName() string     { return r.User.FullName }

// GuestRecipient addresses a checkout without an account.
type GuestRecipient struct {
	Email string
	Name  string
}

func (r GuestRecipient) Kind() RecipientKind     { return RecipientGuest }
func (r GuestRecipient) Address() (string, bool) { return address(r.Email) }
func (r GuestRecipient) DisplayName() string     { return r.Name }

// GarageRecipient addresses a partner workshop.
type GarageRecipient struct {
	Garage model.Garage
}

func (r GarageRecipient) Kind() RecipientKind     { return RecipientGarage }
func (r GarageRecipient) Address() (string, bool) { return address(r.Garage.Email) }
func (r GarageRecipient) DisplayName() string     { return r.Garage.Name }

func address(email string) (string, bool) {
	email = strings.TrimSpace(email)
	return email, email != ""
}
