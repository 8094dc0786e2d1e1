package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"novasphere.in/promat/config"
	"novasphere.in/promat/models"
	"novasphere.in/promat/repository"
)

// SupplierPerformanceRow is one supplier's procurement track record.
type SupplierPerformanceRow struct {
	SupplierID     uuid.UUID `json:"supplierId"`
	SupplierName   string    `json:"supplierName"`
	Rating         *float64  `json:"rating,omitempty"`
	RatingCount    int64     `json:"ratingCount"`
	TotalOrders    int64     `json:"totalOrders"`
	DeliveredCount int64     `json:"deliveredCount"`
	PendingCount   int64     `json:"pendingCount"`
	TotalSpend     float64   `json:"totalSpend"`
}

// supplierPerformance builds the report over all active suppliers.
// Delivered spend only; undelivered orders have no settled price yet.
func supplierPerformance() ([]SupplierPerformanceRow, error) {
	var suppliers []models.Supplier
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}

	rows := make([]SupplierPerformanceRow, 0, len(suppliers))
	for _, s := range suppliers {
		row := SupplierPerformanceRow{
			SupplierID:   s.ID,
			SupplierName: s.Name,
			Rating:       s.Rating,
		}

		if err := config.DB.Model(&models.SupplierRating{}).
			Where("supplier_id = ?", s.ID).
			Count(&row.RatingCount).Error; err != nil {
			return nil, err
		}

		if err := config.DB.Model(&models.Requirement{}).
			Where("supplier_id = ? AND is_active = ?", s.ID, true).
			Count(&row.TotalOrders).Error; err != nil {
			return nil, err
		}
		if err := config.DB.Model(&models.Requirement{}).
			Where("supplier_id = ? AND is_active = ? AND status = ?", s.ID, true, models.StatusDelivered).
			Count(&row.DeliveredCount).Error; err != nil {
			return nil, err
		}
		if err := config.DB.Model(&models.Requirement{}).
			Where("supplier_id = ? AND is_active = ? AND status = ?", s.ID, true, models.StatusPending).
			Count(&row.PendingCount).Error; err != nil {
			return nil, err
		}

		var spend *float64
		if err := config.DB.Model(&models.Requirement{}).
			Where("supplier_id = ? AND is_active = ? AND status = ?", s.ID, true, models.StatusDelivered).
			Select("SUM(total_price)").
			Scan(&spend).Error; err != nil {
			return nil, err
		}
		if spend != nil {
			row.TotalSpend = *spend
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// GetSupplierPerformance returns the supplier performance report as JSON
// GET /api/v1/reports/supplier-performance
func GetSupplierPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := supplierPerformance()
	if err != nil {
		log.Printf("❌ Error building supplier performance report: %v", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  rows,
		"count": len(rows),
	})
}

// ExportSupplierPerformanceToExcel exports the report as an xlsx download
// GET /api/v1/reports/supplier-performance/export
func ExportSupplierPerformanceToExcel(w http.ResponseWriter, r *http.Request) {
	rows, err := supplierPerformance()
	if err != nil {
		log.Printf("❌ Error building supplier performance report: %v", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	f, err := createSupplierPerformanceFile(rows)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("supplier_performance_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// GetSupplierRatings drills into one supplier: the aggregate plus every
// individual score contributing to it
// GET /api/v1/reports/suppliers/{id}/ratings
func GetSupplierRatings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}

	supplier, err := repository.NewSupplierRepo(config.DB).GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "supplier not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Error loading supplier %s: %v", id, err)
		http.Error(w, "failed to load supplier", http.StatusInternalServerError)
		return
	}

	ratings, err := repository.NewRatingRepo(config.DB).ListBySupplier(id)
	if err != nil {
		log.Printf("❌ Error listing ratings for supplier %s: %v", id, err)
		http.Error(w, "failed to list ratings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"supplier": supplier,
		"ratings":  ratings,
		"count":    len(ratings),
	})
}

func createSupplierPerformanceFile(rows []SupplierPerformanceRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Supplier Performance"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	headers := []string{"Supplier", "Rating", "Ratings Count", "Total Orders", "Delivered", "Pending", "Total Spend"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []interface{}{
			row.SupplierName,
			nil,
			row.RatingCount,
			row.TotalOrders,
			row.DeliveredCount,
			row.PendingCount,
			row.TotalSpend,
		}
		if row.Rating != nil {
			values[1] = *row.Rating
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if v != nil {
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "G", 15)
	return f, nil
}
