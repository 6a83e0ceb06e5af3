package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health requests
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
