package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type offerInput struct {
	Title           string    `json:"title" binding:"required,max=255"`
	Description     string    `json:"description"`
	Code            string    `json:"code" binding:"required,max=64,alphanum"`
	DiscountPercent int       `json:"discountPercent" binding:"required,gt=0,max=100"`
	ProductIDs      []uint    `json:"productIds"`
	StartsAt        time.Time `json:"startsAt" binding:"required"`
	EndsAt          time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
	Active          *bool     `json:"active"`
}

func (in offerInput) apply(o *models.Offer) error {
	ids := in.ProductIDs
	if ids == nil {
		ids = []uint{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	o.Title = in.Title
	o.Description = in.Description
	o.Code = strings.ToUpper(in.Code)
	o.DiscountPercent = in.DiscountPercent
	o.ProductIDs = datatypes.JSON(raw)
	o.StartsAt = in.StartsAt
	o.EndsAt = in.EndsAt
	o.Active = in.Active == nil || *in.Active
	return nil
}

func CreateOffer(ctx *gin.Context) {
	var input offerInput
	if !bindJSON(ctx, &input) {
		return
	}
	var offer models.Offer
	if err := input.apply(&offer); err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	if err := initializers.DB.Create(&offer).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, "an offer with this code already exists")
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"offer": offer})
}

func GetOffers(ctx *gin.Context) {
	var offers []models.Offer
	if err := initializers.DB.Order("starts_at DESC").Find(&offers).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"offers": offers})
}

// GetLiveOffers is the storefront view: active offers whose window contains now.
func GetLiveOffers(ctx *gin.Context) {
	now := time.Now()
	var offers []models.Offer
	err := initializers.DB.
		Where("active = ? AND starts_at <= ? AND ends_at > ?", true, now, now).
		Order("ends_at").
		Find(&offers).Error
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"offers": offers})
}

func UpdateOffer(ctx *gin.Context) {
	offerId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input offerInput
	if !bindJSON(ctx, &input) {
		return
	}

	var offer models.Offer
	if err := initializers.DB.First(&offer, offerId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Offer not found")
		return
	}
	if err := input.apply(&offer); err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	if err := initializers.DB.Save(&offer).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, "an offer with this code already exists")
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"offer": offer})
}

func DeleteOffer(ctx *gin.Context) {
	offerId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	result := initializers.DB.Delete(&models.Offer{}, offerId)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Offer not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Offer deleted successfully."})
}
