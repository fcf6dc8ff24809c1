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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	docs := NewDomainGroup("documents", "/documents")
	docs.GET("/types", func(c *gin.Context) {
		c.String(http.StatusOK, "types")
	})
	health := NewDomainGroup("health", "")
	health.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.Register(docs).RegisterRoot(health)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/documents/types")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "types", w.Body.String())

	w = serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/health")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("documents", "/documents")
		assert.Equal(t, "documents", g.Name())
		assert.Equal(t, "/documents", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("documents", "/documents")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("/:type/stamp", ok).
			PUT("/:type/stamp", ok).
			DELETE("/:type/stamp", ok).
			POST("/:type/export", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := serve(engine, method, "/api/v1/documents/receipt/stamp")
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
		w := serve(engine, http.MethodPost, "/api/v1/documents/note/export")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("themes", "")
		g.Group("stamps", "/stamps").GET("/templates", func(c *gin.Context) {
			c.String(http.StatusOK, "templates")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/stamps/templates")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "templates", w.Body.String())
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	noop := func(c *gin.Context) {}
	g := NewDomainGroup("documents", "/documents")
	g.GET("/types", noop).POST("/:type/export", noop)
	g.Group("exports", "/exports").GET("/*path", noop)

	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/documents/types"},
		{Method: http.MethodPost, Path: "/documents/:type/export"},
		{Method: http.MethodGet, Path: "/documents/exports/*path"},
	}, g.Routes())
}
