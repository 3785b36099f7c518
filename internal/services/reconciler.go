package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
)

// EarningRow is one normalised line of a platform earnings report.
// Period and Date are optional and override the import defaults.
type EarningRow struct {
	DriverName  string  `json:"driverName"`
	Gross       float64 `json:"gross"`
	ReportedNet float64 `json:"reportedNet"`
	Period      string  `json:"period,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// ImportResult holds the payments built from an import and the driver names
// that did not match any fleet driver, in first-seen order.
type ImportResult struct {
	Payments       []models.Payment `json:"payments"`
	UnknownDrivers []string         `json:"unknownDrivers"`
}

func (r EarningRow) blank() bool {
	return strings.TrimSpace(r.DriverName) == "" || (r.Gross <= 0 && r.ReportedNet == 0)
}

// ReconcileImport turns earning rows into pending payments. The platform's own
// net figure is discarded: net is always recomputed from the driver's
// commission terms and approved expenses. The function does not read or merge
// existing payments, so importing the same file twice yields two sets.
func ReconcileImport(rows []EarningRow, platform models.Platform, drivers []models.Driver, expenses []models.Expense, periodLabel string, now time.Time) ImportResult {
	result := ImportResult{
		Payments:       []models.Payment{},
		UnknownDrivers: []string{},
	}
	seen := make(map[string]bool)
	stamp := now.UnixMilli()
	today := models.FormatDate(now)

	for idx, row := range rows {
		if row.blank() {
			continue
		}
		name := strings.TrimSpace(row.DriverName)

		gross := row.Gross
		if gross == 0 {
			gross = row.ReportedNet
		}

		breakdown := utils.ComputeNetBreakdown(name, gross, drivers, expenses)
		if !breakdown.DriverFound {
			if !seen[name] {
				seen[name] = true
				result.UnknownDrivers = append(result.UnknownDrivers, name)
			}
		} else if breakdown.Ambiguous {
			log.Printf("Import %s: driver name %q matches more than one driver, using %s", platform, name, breakdown.DriverID)
		}

		period := periodLabel
		if row.Period != "" {
			period = row.Period
		}
		date := today
		if row.Date != "" {
			date = row.Date
		}

		result.Payments = append(result.Payments, models.Payment{
			ID:       fmt.Sprintf("import-%s-%d-%d", platform, stamp, idx),
			DriverID: breakdown.DriverID,
			Driver:   name,
			Platform: platform,
			Period:   period,
			Gross:    gross,
			Net:      breakdown.Net,
			Status:   models.PaymentPending,
			Date:     date,
		})
	}

	return result
}

// ImportSummary is the inbox notification shown after an import.
func ImportSummary(platform models.Platform, result ImportResult, period string, now time.Time) models.AppNotification {
	msg := fmt.Sprintf("Foram importados %d registros de pagamentos para o período %s.", len(result.Payments), period)
	if n := len(result.UnknownDrivers); n > 0 {
		msg += fmt.Sprintf(" Atenção: %d motoristas não foram encontrados no sistema e usaram cálculos padrão.", n)
	}
	return newNotification(fmt.Sprintf("Importação %s Concluída", strings.ToUpper(string(platform))), msg, now)
}
