package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetRevenue  = "Ingresos mensuales"
	SheetBalances = "Balances"
)

// Export writes the monthly revenue and per-client balance sheets as XLSX.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	bal, err := s.loader().ForAll(ctx)
	if err != nil {
		return fmt.Errorf("balances: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRevenue); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetBalances); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	writeHeader(f, SheetRevenue, bold, "Mes", "Suscripciones", "Únicos", "Total")
	for i, b := range bucketMonths(r, s.Now(), s.Loc) {
		row := i + 2
		f.SetCellValue(SheetRevenue, fmt.Sprintf("A%d", row), b.Month)
		f.SetCellValue(SheetRevenue, fmt.Sprintf("B%d", row), b.Subscriptions.InexactFloat64())
		f.SetCellValue(SheetRevenue, fmt.Sprintf("C%d", row), b.OneTime.InexactFloat64())
		f.SetCellValue(SheetRevenue, fmt.Sprintf("D%d", row), b.Revenue.InexactFloat64())
	}
	_ = f.SetColWidth(SheetRevenue, "A", "D", 16)

	writeHeader(f, SheetBalances, bold, "Cliente", "Restante contratos", "Suscripciones vencidas", "Balance total")
	for i, c := range bal.Clients {
		row := i + 2
		f.SetCellValue(SheetBalances, fmt.Sprintf("A%d", row), c.ClientName)
		f.SetCellValue(SheetBalances, fmt.Sprintf("B%d", row), c.TotalRemainingContracts.InexactFloat64())
		f.SetCellValue(SheetBalances, fmt.Sprintf("C%d", row), c.TotalOverdueSubscriptions.InexactFloat64())
		f.SetCellValue(SheetBalances, fmt.Sprintf("D%d", row), c.TotalBalance.InexactFloat64())
	}
	last := len(bal.Clients) + 2
	f.SetCellValue(SheetBalances, fmt.Sprintf("A%d", last), "Total")
	f.SetCellValue(SheetBalances, fmt.Sprintf("B%d", last), bal.TotalRemainingContracts.InexactFloat64())
	f.SetCellValue(SheetBalances, fmt.Sprintf("C%d", last), bal.TotalOverdueSubscriptions.InexactFloat64())
	f.SetCellValue(SheetBalances, fmt.Sprintf("D%d", last), bal.TotalBalance.InexactFloat64())
	_ = f.SetCellStyle(SheetBalances, fmt.Sprintf("A%d", last), fmt.Sprintf("D%d", last), bold)
	_ = f.SetColWidth(SheetBalances, "A", "A", 28)
	_ = f.SetColWidth(SheetBalances, "B", "D", 22)

	_, err = f.WriteTo(w)
	return err
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, t := range titles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, t)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}
