package handlers

import (
	"log"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

// DriverInput is a driver record plus an optional plain password for the
// driver portal login.
type DriverInput struct {
	models.Driver
	Password string `json:"password"`
}

func GetDrivers(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, s.Drivers())
	}
}

func GetDriver(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, err := s.Driver(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, driver)
	}
}

func CreateDriver(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DriverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver := input.Driver
		driver.PasswordHash = ""
		if input.Password != "" {
			hash, err := models.HashPassword(input.Password)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
			driver.PasswordHash = hash
		}

		created, err := s.AddDriver(c.Request.Context(), driver)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, created)
	}
}

// UpdateDriver merges the fields present in the body into the driver
func UpdateDriver(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		var pw struct {
			Password string `json:"password"`
		}
		if err := patchJSON(body, &pw); err != nil {
			respondError(c, err)
			return
		}
		var newHash string
		if pw.Password != "" {
			if newHash, err = models.HashPassword(pw.Password); err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
		}

		updated, err := s.UpdateDriver(c.Request.Context(), c.Param("id"), func(d *models.Driver) error {
			hash := d.PasswordHash
			input := DriverInput{Driver: *d}
			if err := patchJSON(body, &input); err != nil {
				return err
			}
			*d = input.Driver
			d.PasswordHash = hash
			if newHash != "" {
				d.PasswordHash = newHash
			}
			return nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, updated)
	}
}

func ToggleDriverStatus(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, err := s.ToggleDriverStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, driver)
	}
}

func ExportDrivers(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		attachment(c, "motoristas.csv", "text/csv; charset=utf-8")
		if err := services.ExportDriversCSV(c.Writer, s.Drivers()); err != nil {
			log.Printf("Error exporting drivers: %v", err)
		}
	}
}
