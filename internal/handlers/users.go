package handlers

import (
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/gin-gonic/gin"
)

type CreateUserInput struct {
	Email       string          `json:"email" binding:"required,email"`
	FullName    string          `json:"full_name" binding:"required"`
	Password    string          `json:"password" binding:"required,min=6"`
	Role        models.UserRole `json:"role" binding:"required,oneof=admin manager finance"`
	Permissions []string        `json:"permissions"`
}

func GetUsers(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, s.Users())
	}
}

func CreateUser(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := s.AddUser(c.Request.Context(), models.User{
			Email:       input.Email,
			FullName:    input.FullName,
			Role:        input.Role,
			Password:    input.Password,
			Permissions: input.Permissions,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, user)
	}
}

// GetProfile returns the identity carried by the caller's token
func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"id":    c.GetString("userId"),
			"email": c.GetString("userEmail"),
			"role":  c.GetString("userRole"),
		})
	}
}
