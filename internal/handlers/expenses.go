package handlers

import (
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

type ExpenseStatusInput struct {
	Status models.ExpenseStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

// GetExpenses lists expenses, optionally filtered by driver_id and status
func GetExpenses(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Query("driver_id")
		status := c.Query("status")

		expenses := []models.Expense{}
		for _, e := range s.Expenses() {
			if driverID != "" && e.DriverID != driverID {
				continue
			}
			if status != "" && string(e.Status) != status {
				continue
			}
			expenses = append(expenses, e)
		}
		c.JSON(200, expenses)
	}
}

func CreateExpense(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Expense
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		expense, err := s.AddExpense(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, expense)
	}
}

func UpdateExpense(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		expense, err := s.UpdateExpense(c.Request.Context(), c.Param("id"), func(e *models.Expense) error {
			return patchJSON(body, e)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, expense)
	}
}

func UpdateExpenseStatus(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ExpenseStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		expense, err := s.SetExpenseStatus(c.Request.Context(), c.Param("id"), input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, expense)
	}
}

// UploadReceipt stores a receipt image and links it to the expense
func UploadReceipt(s *store.Store, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("receipt")
		if err != nil {
			c.JSON(400, gin.H{"error": "No receipt file provided"})
			return
		}

		url, err := storage.UploadFile(file, "receipts")
		if err != nil {
			log.Printf("Error uploading receipt: %v", err)
			c.JSON(500, gin.H{"error": "Failed to upload receipt"})
			return
		}

		expense, err := s.UpdateExpense(c.Request.Context(), c.Param("id"), func(e *models.Expense) error {
			e.ReceiptURL = url
			return nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, expense)
	}
}

func ExportExpenses(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		attachment(c, datedName("despesas", "csv"), "text/csv; charset=utf-8")
		if err := services.ExportExpensesCSV(c.Writer, s.Expenses(), s.Drivers()); err != nil {
			log.Printf("Error exporting expenses: %v", err)
		}
	}
}
