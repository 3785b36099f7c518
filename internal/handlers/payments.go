package handlers

import (
	"bytes"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

type PaymentStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type BulkPaidInput struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// PaymentsNotifier tells drivers about their payments over the websocket and
// by email once they are paid.
type PaymentsNotifier struct {
	Store  *store.Store
	Hub    *services.Hub
	Mailer *utils.Mailer
}

func (n *PaymentsNotifier) driverFor(p models.Payment) (models.Driver, bool) {
	if p.DriverID != "" {
		d, err := n.Store.Driver(p.DriverID)
		return d, err == nil
	}
	return n.Store.DriverByName(p.Driver)
}

func (n *PaymentsNotifier) Announce(payments []models.Payment) {
	company := n.Store.Settings().Name
	for _, p := range payments {
		driver, ok := n.driverFor(p)
		if !ok {
			continue
		}
		if n.Hub != nil {
			n.Hub.SendPaymentUpdate(driver.ID, services.PaymentUpdate{
				PaymentID: p.ID,
				Period:    p.Period,
				Net:       p.Net,
				Status:    p.Status,
			})
		}
		if p.Status != models.PaymentPaid || driver.Email == "" || !n.Mailer.Enabled() {
			continue
		}
		go func(p models.Payment, driver models.Driver) {
			if err := n.Mailer.SendPaymentPaidEmail(driver.Email, driver.FullName, p.Period, p.Net, company); err != nil {
				log.Printf("Error sending payment email to %s: %v", driver.Email, err)
			}
		}(p, driver)
	}
}

// filterPayments applies the finance page tabs: pending and history (paid).
// Any other tab returns everything.
func filterPayments(payments []models.Payment, tab, q string) []models.Payment {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []models.Payment{}
	for _, p := range payments {
		if q != "" && !strings.Contains(strings.ToLower(p.Driver), q) {
			continue
		}
		switch tab {
		case "pending":
			if p.Status != models.PaymentPending {
				continue
			}
		case "history":
			if p.Status != models.PaymentPaid {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func GetPayments(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, filterPayments(s.Payments(), c.Query("tab"), c.Query("q")))
	}
}

func UpdatePaymentStatus(s *store.Store, notifier *PaymentsNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PaymentStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		status, err := services.ParsePaymentStatus(input.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		payment, err := s.TransitionPayment(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		notifier.Announce([]models.Payment{payment})
		c.JSON(200, payment)
	}
}

func BulkMarkPaid(s *store.Store, notifier *PaymentsNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BulkPaidInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		changed, err := s.BulkMarkPaid(c.Request.Context(), input.IDs)
		if err != nil {
			respondError(c, err)
			return
		}
		notifier.Announce(changed)
		c.JSON(200, gin.H{"updated": len(changed)})
	}
}

// PayAll marks every pending payment as paid
func PayAll(s *store.Store, notifier *PaymentsNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		changed, err := s.PayAllPending(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		notifier.Announce(changed)
		c.JSON(200, gin.H{"updated": len(changed)})
	}
}

// ImportPayments reads a Uber or Bolt earnings CSV, archives the raw file and
// creates one pending payment per driver row
func ImportPayments(s *store.Store, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		platform, err := services.ParsePlatform(c.Query("platform"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "No file provided"})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to open file"})
			return
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read file"})
			return
		}

		rows, err := services.ParseEarningsCSV(bytes.NewReader(data), platform)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		archiveURL := ""
		if storage != nil {
			if archiveURL, err = storage.Save("imports/"+string(platform), ".csv", data); err != nil {
				log.Printf("Warning: failed to archive %s import: %v", platform, err)
			}
		}

		period := c.Query("period")
		if period == "" {
			period = utils.WeeklyPeriod(time.Now(), -1)
		}

		result, err := s.ImportEarnings(c.Request.Context(), rows, platform, period)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"payments":       result.Payments,
			"unknownDrivers": result.UnknownDrivers,
			"period":         period,
			"archive":        archiveURL,
		})
	}
}

func ExportPayments(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab := c.DefaultQuery("tab", "overview")
		payments := filterPayments(s.Payments(), tab, c.Query("q"))
		attachment(c, datedName("financeiro_"+tab, "csv"), "text/csv; charset=utf-8")
		if err := services.ExportPaymentsCSV(c.Writer, payments); err != nil {
			log.Printf("Error exporting payments: %v", err)
		}
	}
}

func ExportPaymentsXLSX(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab := c.DefaultQuery("tab", "overview")
		payments := filterPayments(s.Payments(), tab, c.Query("q"))
		attachment(c, datedName("financeiro_"+tab, "xlsx"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := services.ExportPaymentsXLSX(c.Writer, payments); err != nil {
			log.Printf("Error exporting payments workbook: %v", err)
		}
	}
}

// PreviewNet shows what a driver would receive for a gross amount
func PreviewNet(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver := c.Query("driver")
		gross, err := strconv.ParseFloat(c.Query("gross"), 64)
		if driver == "" || err != nil || math.IsNaN(gross) || math.IsInf(gross, 0) {
			c.JSON(400, gin.H{"error": "driver and numeric gross are required"})
			return
		}
		c.JSON(200, s.PreviewNet(driver, gross))
	}
}

func GetFinanceStats(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, services.FinanceStats(s.Payments()))
	}
}
