package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/freezy-bites-api/models"
)

var validate = validator.New()

// GuestContact is what a guest supplies at checkout instead of an account.
type GuestContact struct {
	Email   string `json:"email" binding:"required,email,max=191"`
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address" binding:"omitempty,max=512"`
}

func (g GuestContact) normalized() GuestContact {
	return GuestContact{
		Email:   NormalizeEmail(g.Email),
		Name:    strings.TrimSpace(g.Name),
		Phone:   strings.TrimSpace(g.Phone),
		Address: strings.TrimSpace(g.Address),
	}
}

func (g GuestContact) validate() error {
	if g.Email == "" {
		return Validationf("guest email is required")
	}
	if err := validate.Var(g.Email, "email"); err != nil {
		return Validationf("guest email %q is not a valid email address", g.Email)
	}
	if g.Name == "" {
		return Validationf("guest name is required")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type GuestIntent int

const (
	GuestCreate GuestIntent = iota + 1
	GuestUpdate
)

func (i GuestIntent) String() string {
	if i == GuestUpdate {
		return "update"
	}
	return "create"
}

// GuestResolution is the customer row a guest checkout should end up with.
// For GuestUpdate, CustomerID names the existing row.
type GuestResolution struct {
	Intent      GuestIntent
	CustomerID  uint
	Email       string
	Name        string
	Phone       string
	Address     string
	TotalOrders int
	TotalSpent  decimal.Decimal
}

// CustomerLookup finds a customer by normalized email, returning nil when none exists.
type CustomerLookup func(email string) (*models.Customer, error)

// ResolveGuest decides whether a guest checkout creates a customer or updates the
// one registered under the same email. It does no I/O besides calling lookup.
// Empty contact fields never overwrite stored values.
func ResolveGuest(contact GuestContact, orderTotal decimal.Decimal, lookup CustomerLookup) (GuestResolution, error) {
	contact = contact.normalized()
	if err := contact.validate(); err != nil {
		return GuestResolution{}, err
	}
	if orderTotal.IsNegative() {
		return GuestResolution{}, Validationf("order total cannot be negative")
	}

	existing, err := lookup(contact.Email)
	if err != nil {
		return GuestResolution{}, Internal(err)
	}
	if existing == nil {
		return GuestResolution{
			Intent:      GuestCreate,
			Email:       contact.Email,
			Name:        contact.Name,
			Phone:       contact.Phone,
			Address:     contact.Address,
			TotalOrders: 1,
			TotalSpent:  orderTotal,
		}, nil
	}

	return GuestResolution{
		Intent:      GuestUpdate,
		CustomerID:  existing.ID,
		Email:       existing.Email,
		Name:        keepUnlessEmpty(existing.Name, contact.Name),
		Phone:       keepUnlessEmpty(existing.Phone, contact.Phone),
		Address:     keepUnlessEmpty(existing.Address, contact.Address),
		TotalOrders: existing.TotalOrders + 1,
		TotalSpent:  existing.TotalSpent.Add(orderTotal),
	}, nil
}

func keepUnlessEmpty(current, incoming string) string {
	if incoming == "" {
		return current
	}
	return incoming
}
