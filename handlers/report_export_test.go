package handlers

import (
	"testing"

	"github.com/google/uuid"
)

func TestCreateSupplierPerformanceFile(t *testing.T) {
	rating := 4.3
	rows := []SupplierPerformanceRow{
		{
			SupplierID:     uuid.New(),
			SupplierName:   "Acme Traders",
			Rating:         &rating,
			RatingCount:    3,
			TotalOrders:    5,
			DeliveredCount: 3,
			PendingCount:   1,
			TotalSpend:     125000,
		},
		{
			SupplierID:   uuid.New(),
			SupplierName: "Unrated Supplies",
		},
	}

	f, err := createSupplierPerformanceFile(rows)
	if err != nil {
		t.Fatalf("createSupplierPerformanceFile: %v", err)
	}
	defer f.Close()

	sheet := "Supplier Performance"
	if got, _ := f.GetCellValue(sheet, "A1"); got != "Supplier" {
		t.Errorf("A1 = %q, want header Supplier", got)
	}
	if got, _ := f.GetCellValue(sheet, "A2"); got != "Acme Traders" {
		t.Errorf("A2 = %q, want Acme Traders", got)
	}
	if got, _ := f.GetCellValue(sheet, "B2"); got != "4.3" {
		t.Errorf("B2 = %q, want 4.3", got)
	}
	if got, _ := f.GetCellValue(sheet, "G2"); got != "125000" {
		t.Errorf("G2 = %q, want 125000", got)
	}

	// A supplier without an aggregate leaves the rating cell blank.
	if got, _ := f.GetCellValue(sheet, "B3"); got != "" {
		t.Errorf("B3 = %q, want empty for unrated supplier", got)
	}
	if got, _ := f.GetCellValue(sheet, "A3"); got != "Unrated Supplies" {
		t.Errorf("A3 = %q, want Unrated Supplies", got)
	}
}
