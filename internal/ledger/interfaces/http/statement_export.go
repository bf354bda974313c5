package http

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"lunchledger/internal/ledger/application"
)

// BuildStatementPDF renders a monthly statement as PDF.
func BuildStatementPDF(stmt application.Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Lunch Ledger Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %04d-%02d", stmt.Year, stmt.Month))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Bought: %s", stmt.TotalBought.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Cost: %s", stmt.TotalCost.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Restaurant", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Bought", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range stmt.Items {
		pdf.CellFormat(30, 6, item.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, string(item.Restaurant), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, item.Bought.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, item.Cost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementXLSX renders a monthly statement as XLSX.
func BuildStatementXLSX(stmt application.Statement) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	itemsSheet := "items"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Lunch Ledger Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Month")
	_ = f.SetCellValue(summarySheet, "B3", fmt.Sprintf("%04d-%02d", stmt.Year, stmt.Month))
	_ = f.SetCellValue(summarySheet, "A4", "Total Bought")
	_ = f.SetCellValue(summarySheet, "B4", stmt.TotalBought.StringFixed(2))
	_ = f.SetCellValue(summarySheet, "A5", "Total Cost")
	_ = f.SetCellValue(summarySheet, "B5", stmt.TotalCost.StringFixed(2))

	_ = f.SetCellValue(itemsSheet, "A1", "Day")
	_ = f.SetCellValue(itemsSheet, "B1", "Restaurant")
	_ = f.SetCellValue(itemsSheet, "C1", "Bought")
	_ = f.SetCellValue(itemsSheet, "D1", "Cost")
	for i, item := range stmt.Items {
		row := i + 2
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.Date.String())
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), string(item.Restaurant))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), item.Bought.StringFixed(2))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), item.Cost.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
