package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty is accepted as absent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		got, ok := parseOptionalDate(c, "")
		assert.True(t, ok)
		assert.Nil(t, got)
	})

	t.Run("anchors at noon UTC", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		got, ok := parseOptionalDate(c, "2026-03-10")
		require.True(t, ok)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), *got)

		// The calendar day must hold when rendered in a negative offset
		saoPaulo := time.FixedZone("America/Sao_Paulo", -3*60*60)
		assert.Equal(t, "2026-03-10", got.In(saoPaulo).Format("2006-01-02"))
	})

	t.Run("bad input writes 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		got, ok := parseOptionalDate(c, "10/03/2026")
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
