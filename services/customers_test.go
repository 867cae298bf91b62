package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/freezy-bites-api/models"
)

func TestSignupActivateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)

	c, err := Signup(db, SignupInput{Email: " Fresh@Example.com", Name: "Fresh", Password: "s3cretpass"}, "act-1")
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", c.Email)
	assert.False(t, c.Activated())
	assert.NotEqual(t, "s3cretpass", c.PendingPassword)

	_, err = Authenticate(db, "fresh@example.com", "s3cretpass")
	requireKind(t, err, KindAuth)
	assert.Contains(t, err.Error(), "not activated")

	_, err = ActivateAccount(db, "wrong-token")
	requireKind(t, err, KindValidation)

	activated, err := ActivateAccount(db, "act-1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, activated.ID)
	assert.True(t, activated.Activated())
	assert.Empty(t, activated.ActivationToken)

	_, err = ActivateAccount(db, "act-1")
	requireKind(t, err, KindValidation)

	_, err = Signup(db, SignupInput{Email: "fresh@example.com", Name: "Again", Password: "s3cretpass"}, "act-2")
	requireKind(t, err, KindConflict)

	got, err := Authenticate(db, "FRESH@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = Authenticate(db, "fresh@example.com", "wrong")
	requireKind(t, err, KindAuth)
	_, err = Authenticate(db, "nobody@example.com", "s3cretpass")
	requireKind(t, err, KindAuth)
}

func TestSignupAgainReplacesPendingClaim(t *testing.T) {
	db := newTestDB(t)
	_, err := Signup(db, SignupInput{Email: "twice@example.com", Name: "First", Password: "firstpass"}, "act-first")
	require.NoError(t, err)
	_, err = Signup(db, SignupInput{Email: "twice@example.com", Name: "Second", Password: "secondpass"}, "act-second")
	require.NoError(t, err)

	_, err = ActivateAccount(db, "act-first")
	requireKind(t, err, KindValidation)
	_, err = ActivateAccount(db, "act-second")
	require.NoError(t, err)

	_, err = Authenticate(db, "twice@example.com", "firstpass")
	requireKind(t, err, KindAuth)
	_, err = Authenticate(db, "twice@example.com", "secondpass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &models.Customer{}))
}

func TestUnverifiedSignupCannotClaimGuestHistory(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "CLAIM", "Claim", "5.00", 10, 0)
	res, err := PlaceOrder(db, PlaceOrderInput{
		Items: []LineRequest{{ProductID: p.ID, Quantity: 2}},
		Guest: &GuestContact{Email: "victim@example.com", Name: "Victim", Phone: "0700111222", Address: "12 Secret Lane"},
	})
	require.NoError(t, err)

	pending, err := Signup(db, SignupInput{Email: "victim@example.com", Name: "Attacker", Address: "Elsewhere", Password: "attacker-pass"}, "act-claim")
	require.NoError(t, err)
	assert.Equal(t, res.CustomerID, pending.ID)

	_, err = Authenticate(db, "victim@example.com", "attacker-pass")
	requireKind(t, err, KindAuth)

	var stored models.Customer
	require.NoError(t, db.First(&stored, res.CustomerID).Error)
	assert.False(t, stored.Activated())
	assert.Equal(t, "Victim", stored.Name)
	assert.Equal(t, "12 Secret Lane", stored.Address)

	// guest checkouts keep working while the claim is pending
	_, err = PlaceOrder(db, PlaceOrderInput{Items: []LineRequest{{ProductID: p.ID, Quantity: 1}}, Guest: guest("victim@example.com")})
	require.NoError(t, err)

	claimed, err := ActivateAccount(db, "act-claim")
	require.NoError(t, err)
	assert.Equal(t, res.CustomerID, claimed.ID)
	assert.Equal(t, 2, claimed.TotalOrders)
	assert.Equal(t, int64(1), countRows(t, db, &models.Customer{}))

	got, err := Authenticate(db, "victim@example.com", "attacker-pass")
	require.NoError(t, err)
	orders, page, err := ListOrders(db, OrderQuery{CustomerID: &got.ID})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestPasswordReset(t *testing.T) {
	db := newTestDB(t)
	_, err := Signup(db, SignupInput{Email: "reset@example.com", Name: "Reset", Password: "oldpassword"}, "act-reset")
	require.NoError(t, err)

	_, err = RequestPasswordReset(db, "reset@example.com", "rst-1", time.Hour)
	requireKind(t, err, KindNotFound)

	_, err = ActivateAccount(db, "act-reset")
	require.NoError(t, err)

	c, err := RequestPasswordReset(db, "Reset@example.com", "rst-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "rst-1", c.PasswordResetToken)

	requireKind(t, ResetPassword(db, "rst-1", "short"), KindValidation)
	requireKind(t, ResetPassword(db, "rst-other", "newpassword"), KindValidation)
	require.NoError(t, ResetPassword(db, "rst-1", "newpassword"))
	requireKind(t, ResetPassword(db, "rst-1", "newpassword2"), KindValidation)

	_, err = Authenticate(db, "reset@example.com", "oldpassword")
	requireKind(t, err, KindAuth)
	_, err = Authenticate(db, "reset@example.com", "newpassword")
	require.NoError(t, err)

	_, err = RequestPasswordReset(db, "reset@example.com", "rst-expired", -time.Minute)
	require.NoError(t, err)
	requireKind(t, ResetPassword(db, "rst-expired", "anotherpass"), KindValidation)

	_, err = RequestPasswordReset(db, "guestonly@example.com", "rst-2", time.Hour)
	requireKind(t, err, KindNotFound)
}

func TestGuestCannotLogIn(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "guestonly@example.com", "Guest")
	_, err := Authenticate(db, "guestonly@example.com", "")
	requireKind(t, err, KindAuth)
}

func TestSignupValidation(t *testing.T) {
	db := newTestDB(t)
	_, err := Signup(db, SignupInput{Email: "not-an-email", Name: "x", Password: "longenough"}, "act")
	requireKind(t, err, KindValidation)
	_, err = Signup(db, SignupInput{Email: "short@example.com", Name: "x", Password: "short"}, "act")
	requireKind(t, err, KindValidation)
	_, err = Signup(db, SignupInput{Email: "notoken@example.com", Name: "x", Password: "longenough"}, "")
	requireKind(t, err, KindInternal)
}

func TestAuthenticateAdmin(t *testing.T) {
	db := newTestDB(t)
	hashed, err := HashPassword("adminpass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Email: "boss@example.com", Name: "Boss", Password: hashed, Role: "superadmin"}).Error)

	admin, err := AuthenticateAdmin(db, "Boss@example.com", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, "superadmin", admin.Role)

	_, err = AuthenticateAdmin(db, "boss@example.com", "nope")
	requireKind(t, err, KindAuth)
}
