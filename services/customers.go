package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kariqs/freezy-bites-api/models"
)

const bcryptCost = 10

type SignupInput struct {
	Email    string `json:"email" binding:"required,email,max=191"`
	Name     string `json:"name" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
	Address  string `json:"address" binding:"omitempty,max=512"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(hashed, password string) bool {
	return hashed != "" && bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

const (
	msgInvalidActivationLink = "invalid or expired activation link"
	msgInvalidResetLink      = "invalid or expired password reset link"
)

func validPassword(password string) error {
	if len(password) < 8 {
		return Validationf("password must be at least 8 characters")
	}
	return nil
}

// Signup registers a customer account that stays pending until ActivateAccount is called
// with activationToken. A customer row left by an earlier guest checkout with the same
// email is claimed only on activation, so nobody can read that guest's orders without
// controlling the mailbox. Signing up again before activation replaces the pending
// password and token.
func Signup(db *gorm.DB, in SignupInput, activationToken string) (*models.Customer, error) {
	email := NormalizeEmail(in.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, Validationf("a valid email is required")
	}
	if err := validPassword(in.Password); err != nil {
		return nil, err
	}
	if activationToken == "" {
		return nil, Internal(errors.New("missing activation token"))
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, Internal(err)
	}

	var customer models.Customer
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).Take(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = models.Customer{
				Email:           email,
				Name:            strings.TrimSpace(in.Name),
				Phone:           strings.TrimSpace(in.Phone),
				Address:         strings.TrimSpace(in.Address),
				PendingPassword: hashed,
				ActivationToken: activationToken,
				Status:          models.CustomerStatusActive,
			}
			return dbError(tx.Create(&customer).Error, "")
		case err != nil:
			return Internal(err)
		case customer.Activated():
			return Conflictf("an account with this email already exists")
		}

		res := tx.Model(&models.Customer{}).
			Where("id = ? AND password = ?", customer.ID, "").
			Updates(map[string]any{"pending_password": hashed, "activation_token": activationToken})
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return Conflictf("an account with this email already exists")
		}
		return tx.First(&customer, customer.ID).Error
	})
	if err != nil {
		return nil, Internal(err)
	}
	return &customer, nil
}

// ActivateAccount confirms the signup holding token and moves its pending password in place.
func ActivateAccount(db *gorm.DB, token string) (*models.Customer, error) {
	if token == "" {
		return nil, Validationf(msgInvalidActivationLink)
	}
	var customer models.Customer
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("activation_token = ?", token).Take(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Validationf(msgInvalidActivationLink)
		}
		if err != nil {
			return Internal(err)
		}

		res := tx.Model(&models.Customer{}).
			Where("id = ? AND activation_token = ?", customer.ID, token).
			Updates(map[string]any{
				"password":         gorm.Expr("pending_password"),
				"pending_password": "",
				"activation_token": "",
			})
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return Validationf(msgInvalidActivationLink)
		}
		return tx.First(&customer, customer.ID).Error
	})
	if err != nil {
		return nil, Internal(err)
	}
	return &customer, nil
}

// RequestPasswordReset stores token against the activated account for email, valid for ttl.
func RequestPasswordReset(db *gorm.DB, email, token string, ttl time.Duration) (*models.Customer, error) {
	if token == "" {
		return nil, Internal(errors.New("missing reset token"))
	}
	var customer models.Customer
	err := db.Where("email = ? AND password <> ?", NormalizeEmail(email), "").Take(&customer).Error
	if err != nil {
		return nil, dbError(err, "customer not found")
	}
	expires := time.Now().Add(ttl)
	err = db.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(map[string]any{
		"password_reset_token":      token,
		"password_reset_expires_at": expires,
	}).Error
	if err != nil {
		return nil, Internal(err)
	}
	customer.PasswordResetToken, customer.PasswordResetExpiresAt = token, &expires
	return &customer, nil
}

func ResetPassword(db *gorm.DB, token, password string) error {
	if err := validPassword(password); err != nil {
		return err
	}
	if token == "" {
		return Validationf(msgInvalidResetLink)
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return Internal(err)
	}
	res := db.Model(&models.Customer{}).
		Where("password_reset_token = ? AND password_reset_expires_at > ? AND password <> ?", token, time.Now(), "").
		Updates(map[string]any{
			"password":                  hashed,
			"password_reset_token":      "",
			"password_reset_expires_at": nil,
		})
	if res.Error != nil {
		return Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return Validationf(msgInvalidResetLink)
	}
	return nil
}

func Authenticate(db *gorm.DB, email, password string) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("email = ?", NormalizeEmail(email)).Take(&customer).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Internal(err)
	}
	if err == nil && !customer.Activated() && CheckPassword(customer.PendingPassword, password) {
		return nil, Authf("account not activated, check your email to activate it")
	}
	if err != nil || !CheckPassword(customer.Password, password) {
		return nil, Authf("invalid email or password")
	}
	if customer.Status != models.CustomerStatusActive {
		return nil, Authf("customer account is %s", customer.Status)
	}
	return &customer, nil
}

func AuthenticateAdmin(db *gorm.DB, email, password string) (*models.Admin, error) {
	var admin models.Admin
	err := db.Where("email = ?", NormalizeEmail(email)).Take(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Internal(err)
	}
	if err != nil || !CheckPassword(admin.Password, password) {
		return nil, Authf("invalid email or password")
	}
	return &admin, nil
}
