package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type contentInput struct {
	Title string          `json:"title" binding:"max=255"`
	Body  json.RawMessage `json:"body" binding:"required"`
}

func GetContent(ctx *gin.Context) {
	var content models.Content
	if err := initializers.DB.Where(map[string]any{"key": ctx.Param("key")}).Take(&content).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Content not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"content": content})
}

func GetAllContent(ctx *gin.Context) {
	var contents []models.Content
	if err := initializers.DB.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&contents).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"contents": contents})
}

// PutContent creates or replaces the website section named by :key.
func PutContent(ctx *gin.Context) {
	key := ctx.Param("key")
	if key == "" || len(key) > 100 {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid content key")
		return
	}
	var input contentInput
	if !bindJSON(ctx, &input) {
		return
	}
	if !json.Valid(input.Body) {
		sendErrorResponse(ctx, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	content := models.Content{Key: key, Title: input.Title, Body: datatypes.JSON(input.Body)}
	err := initializers.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "body", "updated_at", "deleted_at"}),
	}).Create(&content).Error
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}

	var stored models.Content
	if err := initializers.DB.Where(map[string]any{"key": key}).Take(&stored).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"content": stored})
}
