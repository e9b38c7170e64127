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

// stubRegistrar registers a single ping route under its prefix
type stubRegistrar struct {
	prefix string
	body   string
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(s.prefix+"/ping", func(c *gin.Context) {
		c.String(http.StatusOK, s.body)
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(&stubRegistrar{prefix: "/orders", body: "pong"})

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	r.Register(&stubRegistrar{prefix: "/orders", body: "pong"})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/orders/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterSetup_CustomVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	r.Register(&stubRegistrar{prefix: "/orders", body: "pong"})
	r.Setup()

	// Routes live under the configured version prefix only
	req := httptest.NewRequest("GET", "/api/v2/orders/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/orders/ping", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterRegisterChaining(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(&stubRegistrar{prefix: "/orders", body: "orders"}).
		Register(&stubRegistrar{prefix: "/suppliers", body: "suppliers"})
	r.Setup()

	req1 := httptest.NewRequest("GET", "/api/v1/orders/ping", nil)
	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "orders", w1.Body.String())

	req2 := httptest.NewRequest("GET", "/api/v1/suppliers/ping", nil)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "suppliers", w2.Body.String())
}
