package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingWithConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	labelsFor := func(cfg ProfilingConfig, path string) map[string]string {
		got := map[string]string{}
		r := gin.New()
		r.Use(ProfilingWithConfig(cfg))
		handler := func(c *gin.Context) {
			pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
				got[k] = v
				return true
			})
			c.Status(http.StatusOK)
		}
		r.GET("/person/:id", handler)
		r.GET("/health", handler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		return got
	}

	t.Run("labels route and method", func(t *testing.T) {
		got := labelsFor(DefaultProfilingConfig(), "/person/123")
		assert.Equal(t, "/person/:id", got[ProfilingLabelRoute])
		assert.Equal(t, http.MethodGet, got[ProfilingLabelMethod])
	})

	t.Run("skips health", func(t *testing.T) {
		assert.Empty(t, labelsFor(DefaultProfilingConfig(), "/health"))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.Empty(t, labelsFor(ProfilingConfig{}, "/person/123"))
	})
}

func TestShouldSkipProfiling(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, shouldSkipProfiling("/health", cfg))
	assert.True(t, shouldSkipProfiling("/prod/health", cfg))
	assert.True(t, shouldSkipProfiling("/swagger/index.html", cfg))
	assert.False(t, shouldSkipProfiling("/person", cfg))
}
