package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/services"
)

// GetInventory answers the summary counts together with the products of the
// requested bucket (all products when ?stock is absent).
func GetInventory(ctx *gin.Context) {
	bucket, err := services.ParseStockBucket(ctx.Query("stock"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	summary, err := services.InventorySummaryOf(initializers.DB)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	products, err := services.ListInventory(initializers.DB, bucket)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"summary": summary, "products": products})
}

func ExportInventory(ctx *gin.Context) {
	bucket, err := services.ParseStockBucket(ctx.Query("stock"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	products, err := services.ListInventory(initializers.DB, bucket)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	file, err := inventoryWorkbook(products)
	if err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Transfer-Encoding", "binary")
	ctx.Header("Expires", "0")

	if err := file.Write(ctx.Writer); err != nil {
		respondWithServiceError(ctx, services.Internal(err))
		return
	}
}

func inventoryWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ID", "SKU", "Name", "Category", "Price", "Stock", "MinStock", "Status", "StockValue"} {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetInt(p.MinStock)
		row.AddCell().SetString(string(p.Status))
		row.AddCell().SetFloat(p.StockValue().InexactFloat64())
	}
	return file, nil
}
