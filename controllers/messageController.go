package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type messageInput struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=191"`
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Body    string `json:"body" binding:"required,max=5000"`
}

// CreateMessage stores a contact-form submission.
func CreateMessage(ctx *gin.Context) {
	var input messageInput
	if !bindJSON(ctx, &input) {
		return
	}
	message := models.Message{
		Name:    strings.TrimSpace(input.Name),
		Email:   services.NormalizeEmail(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
	}
	if err := initializers.DB.Create(&message).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Thanks, we will get back to you soon."})
}

func GetMessages(ctx *gin.Context) {
	page, limit := parsePage(ctx, 25)
	query := initializers.DB.Model(&models.Message{})
	if ctx.Query("unread") == "true" {
		query = query.Where(map[string]any{"read": false})
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	var messages []models.Message
	if err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&messages).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"messages": messages, "metadata": services.NewPage(count, page, limit)})
}

func MarkMessageRead(ctx *gin.Context) {
	messageId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	result := initializers.DB.Model(&models.Message{}).Where("id = ?", messageId).Update("read", true)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Message not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Message marked as read"})
}

func DeleteMessage(ctx *gin.Context) {
	messageId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	result := initializers.DB.Delete(&models.Message{}, messageId)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Message not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Message deleted successfully."})
}
