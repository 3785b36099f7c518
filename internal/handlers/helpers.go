package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// patchJSON overlays the fields present in body onto target.
func patchJSON(body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}

func attachment(c *gin.Context, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", contentType)
}

func datedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, models.FormatDate(time.Now()), ext)
}
