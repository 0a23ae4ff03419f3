package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SearchHealth reports whether the search backend answers
type SearchHealth interface {
	Healthy() bool
}

// HealthCheck reports liveness. Search being down does not fail the check
// since search falls back to the catalog.
func HealthCheck(search SearchHealth) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "disabled"
		if search != nil {
			status = "unavailable"
			if search.Healthy() {
				status = "ok"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"search": status,
			"time":   time.Now(),
		})
	}
}
