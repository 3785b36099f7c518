package handlers

import (
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

type MaintenanceInput struct {
	Date        string  `json:"date"`
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost" binding:"gte=0"`
}

func GetVehicles(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		vehicles := s.Vehicles()
		if status == "" {
			c.JSON(200, vehicles)
			return
		}
		filtered := []models.Vehicle{}
		for _, v := range vehicles {
			if string(v.Status) == status {
				filtered = append(filtered, v)
			}
		}
		c.JSON(200, filtered)
	}
}

func GetVehicle(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, err := s.Vehicle(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, vehicle)
	}
}

func CreateVehicle(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Vehicle
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle, err := s.AddVehicle(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, vehicle)
	}
}

func UpdateVehicle(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		vehicle, err := s.UpdateVehicle(c.Request.Context(), c.Param("id"), func(v *models.Vehicle) error {
			return patchJSON(body, v)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, vehicle)
	}
}

func ToggleVehicleStatus(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, err := s.ToggleVehicleStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, vehicle)
	}
}

func GetVehicleHistory(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, err := s.Vehicle(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		history := vehicle.History
		if history == nil {
			history = []models.MaintenanceEntry{}
		}
		c.JSON(200, history)
	}
}

func AddMaintenanceEntry(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input MaintenanceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle, err := s.AddMaintenanceEntry(c.Request.Context(), c.Param("id"), models.MaintenanceEntry{
			Date:        input.Date,
			Type:        input.Type,
			Description: input.Description,
			Cost:        input.Cost,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, vehicle)
	}
}
