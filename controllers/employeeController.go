package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

type employeeInput struct {
	Name    string          `json:"name" binding:"required,max=255"`
	Email   string          `json:"email" binding:"required,email,max=191"`
	Phone   string          `json:"phone" binding:"omitempty,max=50"`
	Role    string          `json:"role" binding:"omitempty,max=100"`
	Salary  decimal.Decimal `json:"salary"`
	HiredAt time.Time       `json:"hiredAt"`
	Status  string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (in employeeInput) apply(e *models.Employee) {
	e.Name = in.Name
	e.Email = services.NormalizeEmail(in.Email)
	e.Phone = in.Phone
	e.Role = in.Role
	e.Salary = in.Salary
	e.HiredAt = in.HiredAt
	e.Status = in.Status
	if e.Status == "" {
		e.Status = "active"
	}
	if e.HiredAt.IsZero() {
		e.HiredAt = time.Now()
	}
}

func CreateEmployee(ctx *gin.Context) {
	var input employeeInput
	if !bindJSON(ctx, &input) {
		return
	}
	if msg := validateMoney("salary", input.Salary); msg != "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msg)
		return
	}

	var employee models.Employee
	input.apply(&employee)
	if err := initializers.DB.Create(&employee).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, "an employee with this email already exists")
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"employee": employee})
}

func GetEmployees(ctx *gin.Context) {
	var employees []models.Employee
	query := initializers.DB.Order("name")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&employees).Error; err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"employees": employees})
}

func UpdateEmployee(ctx *gin.Context) {
	employeeId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input employeeInput
	if !bindJSON(ctx, &input) {
		return
	}
	if msg := validateMoney("salary", input.Salary); msg != "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msg)
		return
	}

	var employee models.Employee
	if err := initializers.DB.First(&employee, employeeId).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Employee not found")
		return
	}
	input.apply(&employee)
	if err := initializers.DB.Save(&employee).Error; err != nil {
		if services.IsDuplicateKey(err) {
			sendErrorResponse(ctx, http.StatusConflict, "an employee with this email already exists")
			return
		}
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"employee": employee})
}

func DeleteEmployee(ctx *gin.Context) {
	employeeId, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	result := initializers.DB.Delete(&models.Employee{}, employeeId)
	if result.Error != nil {
		respondWithServiceError(ctx, services.Internal(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Employee not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Employee deleted successfully."})
}
