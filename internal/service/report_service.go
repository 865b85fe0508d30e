package service

import (
	"fmt"
	"time"

	"go-warehouse-api/internal/repository"
	"go-warehouse-api/pkg/apperr"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	BuildInventoryReport() (*excelize.File, error)
}

type reportService struct {
	productRepo repository.ProductRepository
}

func NewReportService(productRepo repository.ProductRepository) ReportService {
	return &reportService{productRepo: productRepo}
}

// BuildInventoryReport renders the current stock position as a worksheet:
// one row per product with stock, minimum, unit price and valuation.
func (s *reportService) BuildInventoryReport() (*excelize.File, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Storage(err)
	}

	f := excelize.NewFile()
	const sheet = "Inventory"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to create sheet", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"SKU", "Name", "Category", "Supplier", "Stock", "Min Stock", "Unit Price", "Valuation", "Expiry Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var grandTotal float64
	for row, p := range products {
		valuation := float64(p.Stock) * p.Price
		grandTotal += valuation

		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}

		values := []interface{}{p.SKU, p.Name, p.Category, p.Supplier, p.Stock, p.MinStock, p.Price, valuation, expiry}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(products) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total valuation")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), grandTotal)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow+1), "Generated at")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow+1), time.Now().Format(time.RFC3339))

	return f, nil
}
