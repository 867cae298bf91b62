package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/middlewares"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
	"github.com/Kariqs/freezy-bites-api/utils"
)

const (
	msgFailedToGenerateToken = "failed to generate token"
	msgUserCreated           = "Account created. Check your email to activate your account."
	msgActivationSuccess     = "Account has been activated successfully."
	msgResetLinkSent         = "If an account exists for this email, a password reset link has been sent."
	msgPasswordReset         = "Password reset successful"

	passwordResetTTL = time.Hour
)

func issueToken(ctx *gin.Context, id utils.Identity) (string, bool) {
	token, err := utils.GenerateJWT(deps.JWTSecret, id)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return "", false
	}
	return token, true
}

// Signup creates a pending customer account and emails its activation link. An earlier
// guest record with the same email is claimed once the link is used.
func Signup(ctx *gin.Context) {
	var input services.SignupInput
	if !bindJSON(ctx, &input) {
		return
	}

	activationToken, err := utils.GenerateCode(16)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	customer, err := services.Signup(initializers.DB, input, activationToken)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	services.DeliverAccountMail(ctx.Request.Context(), deps.Accounts, services.AccountMail{
		Kind:  services.AccountActivation,
		Email: customer.Email,
		Name:  input.Name,
		Token: activationToken,
	}, deps.ReceiptTimeout)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated})
}

func ActivateAccount(ctx *gin.Context) {
	if _, err := services.ActivateAccount(initializers.DB, ctx.Param("activationToken")); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgActivationSuccess})
}

// SendPasswordResetLink answers the same way whether or not the email has an account.
func SendPasswordResetLink(ctx *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(ctx, &input) {
		return
	}

	resetToken, err := utils.GenerateCode(16)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	customer, err := services.RequestPasswordReset(initializers.DB, input.Email, resetToken, passwordResetTTL)
	switch {
	case services.KindOf(err) == services.KindNotFound:
	case err != nil:
		respondWithServiceError(ctx, err)
		return
	default:
		services.DeliverAccountMail(ctx.Request.Context(), deps.Accounts, services.AccountMail{
			Kind:  services.AccountPasswordReset,
			Email: customer.Email,
			Name:  customer.Name,
			Token: resetToken,
		}, deps.ReceiptTimeout)
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func ResetPassword(ctx *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required,min=8,max=72"`
	}
	if !bindJSON(ctx, &input) {
		return
	}
	if err := services.ResetPassword(initializers.DB, ctx.Param("resetToken"), input.Password); err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgPasswordReset})
}

func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if !bindJSON(ctx, &loginData) {
		return
	}

	customer, err := services.Authenticate(initializers.DB, loginData.Email, loginData.Password)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	token, ok := issueToken(ctx, utils.Identity{UserID: customer.ID, Email: customer.Email, Role: utils.RoleCustomer})
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": token})
}

func AdminLogin(ctx *gin.Context) {
	var loginData models.LoginData
	if !bindJSON(ctx, &loginData) {
		return
	}

	admin, err := services.AuthenticateAdmin(initializers.DB, loginData.Email, loginData.Password)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	token, ok := issueToken(ctx, utils.Identity{UserID: admin.ID, Email: admin.Email, Role: admin.Role})
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": token, "role": admin.Role})
}

// Me returns the signed-in customer.
func Me(ctx *gin.Context) {
	customerID, _ := middlewares.CurrentCustomerID(ctx)

	var customer models.Customer
	if err := initializers.DB.First(&customer, customerID).Error; err != nil {
		respondWithServiceError(ctx, services.NotFoundf("customer not found"))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"customer": customer})
}

type adminInput struct {
	Email    string `json:"email" binding:"required,email,max=191"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin superadmin"`
}

func CreateAdmin(ctx *gin.Context) {
	var input adminInput
	if !bindJSON(ctx, &input) {
		return
	}

	hashed, err := services.HashPassword(input.Password)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	admin := models.Admin{
		Email:    services.NormalizeEmail(input.Email),
		Name:     input.Name,
		Password: hashed,
		Role:     input.Role,
	}
	if admin.Role == "" {
		admin.Role = utils.RoleAdmin
	}

	if err := initializers.DB.Create(&admin).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, "an admin with this email already exists")
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"admin": admin})
}

func GetAdmins(ctx *gin.Context) {
	var admins []models.Admin
	if err := initializers.DB.Order("id").Find(&admins).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"admins": admins})
}
