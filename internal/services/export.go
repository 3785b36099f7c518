package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	driverExportHeader  = []string{"Nome", "NIF", "Email", "Telefone", "Status", "Comissão", "Tipo"}
	expenseExportHeader = []string{"Data", "Categoria", "Motorista", "Descrição", "Valor", "Status"}
	paymentExportHeader = []string{"Motorista", "Período", "Receita Bruta", "Taxas Plataforma", "Valor Líquido", "Status", "Data"}
)

const paymentsSheet = "Financeiro"

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func paymentStatusExport(s models.PaymentStatus) string {
	if s == models.PaymentPaid {
		return "Pago"
	}
	return "Pendente"
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func ExportDriversCSV(w io.Writer, drivers []models.Driver) error {
	rows := make([][]string, 0, len(drivers))
	for _, d := range drivers {
		rows = append(rows, []string{
			d.FullName, d.NIF, d.Email, d.Phone, string(d.Status),
			formatAmount(d.CommissionValue), string(d.CommissionType),
		})
	}
	return writeCSV(w, driverExportHeader, rows)
}

// ExportExpensesCSV writes expenses with the driver resolved by id; fleet
// expenses are labelled "Geral".
func ExportExpensesCSV(w io.Writer, expenses []models.Expense, drivers []models.Driver) error {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		driver := "Geral"
		if e.DriverID != "" {
			if name, ok := models.DriverName(drivers, e.DriverID); ok {
				driver = name
			} else {
				driver = unknownPlaceholder
			}
		}
		rows = append(rows, []string{
			e.Date, e.Category.Label(), driver, e.Description,
			formatAmount(e.Amount), string(e.Status),
		})
	}
	return writeCSV(w, expenseExportHeader, rows)
}

func paymentRow(p models.Payment) []string {
	return []string{
		p.Driver, p.Period, formatAmount(p.Gross), formatAmount(p.Commission()),
		formatAmount(p.Net), paymentStatusExport(p.Status), p.Date,
	}
}

func ExportPaymentsCSV(w io.Writer, payments []models.Payment) error {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, paymentRow(p))
	}
	return writeCSV(w, paymentExportHeader, rows)
}

// ExportPaymentsXLSX writes the payments table to a "Financeiro" sheet.
func ExportPaymentsXLSX(w io.Writer, payments []models.Payment) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(paymentsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(paymentsSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	for col, title := range paymentExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(paymentsSheet, cell, title)
	}

	for i, p := range payments {
		row := i + 2
		values := []interface{}{
			p.Driver, p.Period, p.Gross, p.Commission(), p.Net, paymentStatusExport(p.Status), p.Date,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(paymentsSheet, cell, v)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
