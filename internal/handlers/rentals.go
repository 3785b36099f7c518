package handlers

import (
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

type ApproveRentalInput struct {
	DriverID string `json:"driver_id" binding:"required"`
	EndDate  string `json:"end_date"`
}

type RejectRentalInput struct {
	DriverName string `json:"driver_name" binding:"required"`
}

func GetRentals(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, s.Rentals())
	}
}

func CreateRental(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Rental
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.VehicleID == "" {
			c.JSON(400, gin.H{"error": "vehicle_id is required"})
			return
		}

		rental, err := s.AddRental(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, rental)
	}
}

func UpdateRental(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		rental, err := s.UpdateRental(c.Request.Context(), c.Param("id"), func(r *models.Rental) error {
			return patchJSON(body, r)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, rental)
	}
}

// RequestRental registers the calling driver's interest in a rental
func RequestRental(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, err := s.Driver(c.GetString("userId"))
		if err != nil {
			c.JSON(403, gin.H{"error": "Only drivers can request rentals"})
			return
		}

		rental, err := s.RequestRental(c.Request.Context(), c.Param("id"), driver.FullName)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, rental)
	}
}

func ApproveRental(s *store.Store, mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ApproveRentalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rental, expense, err := s.ApproveRental(c.Request.Context(), c.Param("id"), input.DriverID, input.EndDate)
		if err != nil {
			respondError(c, err)
			return
		}

		if driver, err := s.Driver(input.DriverID); err == nil && driver.Email != "" && mailer.Enabled() {
			plate, _ := models.VehiclePlate(s.Vehicles(), rental.VehicleID)
			company := s.Settings().Name
			go func() {
				if err := mailer.SendRentalApprovedEmail(driver.Email, driver.FullName, plate, expense.Amount, company); err != nil {
					log.Printf("Error sending rental approval email to %s: %v", driver.Email, err)
				}
			}()
		}

		c.JSON(200, gin.H{
			"rental":  rental,
			"expense": expense,
		})
	}
}

func RejectRental(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RejectRentalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rental, err := s.RejectRental(c.Request.Context(), c.Param("id"), input.DriverName)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, rental)
	}
}
