package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNormalizeBasePath(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"/":       "",
		"prod":    "/prod",
		"/prod/":  "/prod",
		" /v1 ":   "/v1",
		"/a/b///": "/a/b",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeBasePath(in), "input %q", in)
	}
}

func TestRouterSetup(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
		path     string
	}{
		{"no base path", "", "/person/ping"},
		{"with base path", "prod/", "/prod/person/ping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			r := NewRouter(engine, WithBasePath(tt.basePath))

			group := NewDomainGroup("person", "/person")
			group.GET("/ping", func(c *gin.Context) {
				c.String(http.StatusOK, "pong")
			})
			r.Register(group).Setup()

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "pong", w.Body.String())
		})
	}
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("person", "/person")
		assert.Equal(t, "person", g.Name())
		assert.Equal(t, "/person", g.Prefix())
	})

	t.Run("root POST and middleware", func(t *testing.T) {
		engine := gin.New()
		var seen bool
		g := NewDomainGroup("person", "/person").Use(func(c *gin.Context) {
			seen = true
			c.Next()
		})
		g.POST("", func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		g.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/person", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, seen)
	})
}
