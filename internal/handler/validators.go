package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidations installs custom binding rules on gin's validator engine.
// Call once before registering routes.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDate)
	}
}

// futureDate accepts 2006-01-02 dates from today onward. Quote requests for
// past dates are rejected at binding time.
func futureDate(fl validator.FieldLevel) bool {
	t, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return !t.Before(today)
}

// pathID returns the :id path parameter when it is a well-formed uuid.
// Malformed ids cannot reference any row, so the request is answered with
// 400 before touching the database.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return "", false
	}
	return id, true
}
