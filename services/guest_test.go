package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/freezy-bites-api/models"
)

func TestResolveGuestCreate(t *testing.T) {
	var looked string
	res, err := ResolveGuest(
		GuestContact{Email: "  New@Example.COM", Name: " Amina ", Phone: "0711", Address: "Kilimani"},
		dec("42.50"),
		func(email string) (*models.Customer, error) {
			looked = email
			return nil, nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", looked)
	assert.Equal(t, GuestResolution{
		Intent:      GuestCreate,
		Email:       "new@example.com",
		Name:        "Amina",
		Phone:       "0711",
		Address:     "Kilimani",
		TotalOrders: 1,
		TotalSpent:  dec("42.50"),
	}, res)
}

func TestResolveGuestUpdateKeepsStoredFields(t *testing.T) {
	existing := &models.Customer{
		ID:          7,
		Email:       "old@example.com",
		Name:        "Old Name",
		Phone:       "0722",
		Address:     "Westlands",
		TotalOrders: 3,
		TotalSpent:  dec("100.00"),
	}
	res, err := ResolveGuest(
		GuestContact{Email: "OLD@example.com", Name: "New Name"},
		dec("15.25"),
		func(string) (*models.Customer, error) { return existing, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, GuestUpdate, res.Intent)
	assert.Equal(t, uint(7), res.CustomerID)
	assert.Equal(t, "New Name", res.Name)
	assert.Equal(t, "0722", res.Phone)
	assert.Equal(t, "Westlands", res.Address)
	assert.Equal(t, 4, res.TotalOrders)
	assert.True(t, res.TotalSpent.Equal(dec("115.25")))
}

func TestResolveGuestRejectsBadInput(t *testing.T) {
	never := func(string) (*models.Customer, error) {
		t.Fatal("lookup must not be called")
		return nil, nil
	}

	_, err := ResolveGuest(GuestContact{Name: "x"}, decimal.Zero, never)
	requireKind(t, err, KindValidation)

	_, err = ResolveGuest(GuestContact{Email: "x@example.com"}, decimal.Zero, never)
	requireKind(t, err, KindValidation)

	_, err = ResolveGuest(GuestContact{Email: "x@example.com", Name: "x"}, dec("-1"), never)
	requireKind(t, err, KindValidation)
}

func TestResolveGuestLookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := ResolveGuest(GuestContact{Email: "x@example.com", Name: "x"}, decimal.Zero,
		func(string) (*models.Customer, error) { return nil, boom })
	requireKind(t, err, KindInternal)
	assert.ErrorIs(t, err, boom)
}

func TestGuestIntentString(t *testing.T) {
	assert.Equal(t, "create", GuestCreate.String())
	assert.Equal(t, "update", GuestUpdate.String())
}
