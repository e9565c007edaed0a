package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathIDRejectsMalformedIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, id := range []string{"abc", "123", "6f1d0aa2-9c1e-4a6e-8a6e"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: id}}

		_, ok := pathID(c)
		assert.False(t, ok, id)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestPathIDAcceptsWellFormedIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "6f1d0aa2-9c1e-4a6e-8a6e-0f4f4b7a9d11"}}

	id, ok := pathID(c)
	require.True(t, ok)
	assert.Equal(t, "6f1d0aa2-9c1e-4a6e-8a6e-0f4f4b7a9d11", id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFutureDateRule(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("futuredate", futureDate))

	assert.NoError(t, v.Var("2099-01-01", "futuredate"))
	assert.Error(t, v.Var("2000-01-01", "futuredate"))
	assert.Error(t, v.Var("not-a-date", "futuredate"))
}
