package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getSwaggerDoc(t *testing.T, engine *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	return w
}

func TestMountSwaggerDisabled(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine, middleware.SwaggerConfig{}, nil)

	w := getSwaggerDoc(t, engine)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMountSwaggerRequiresUser(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine, middleware.SwaggerConfig{Enabled: true, RequireAuth: true}, middleware.RequireUser())

	w := getSwaggerDoc(t, engine)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The served document must describe every versioned route, with the
// method it is registered under.
func TestMountSwaggerDocumentsEveryRoute(t *testing.T) {
	engine, _ := newAPI(t)
	MountSwagger(engine, middleware.SwaggerConfig{Enabled: true}, nil)

	w := getSwaggerDoc(t, engine)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "{{")

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Foodgram API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/recipes/download_shopping_cart")

	documented := 0
	for _, route := range engine.Routes() {
		path, ok := strings.CutPrefix(route.Path, "/api/v1")
		if !ok {
			continue
		}
		path = strings.ReplaceAll(path, ":id", "{id}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "undocumented path %s", route.Path) {
			continue
		}
		assert.Contains(t, ops, strings.ToLower(route.Method), "undocumented %s %s", route.Method, route.Path)
		documented++
	}
	assert.Equal(t, 23, documented)
}
