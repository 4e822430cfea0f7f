package pkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pereval/internal/app/config"
	"pereval/internal/app/handler"
	"pereval/internal/app/middleware"
	"pereval/internal/app/repository"
	"pereval/internal/app/storage"

	_ "pereval/docs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*Application, *storage.LocalStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.Open(config.DatabaseConfig{
		Type: config.DatabaseSQLite,
		Path: "file:app_setup?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	h, err := handler.NewHandler(repo, store, nil)
	require.NoError(t, err)

	cfg := &config.Config{JWT: config.JWTConfig{Token: "secret", SigningMethod: jwt.SigningMethodHS256}}
	app := NewApp(cfg, gin.New(), h, middleware.NewAuthMiddleware(nil, cfg))
	app.Setup()
	return app, store
}

func get(app *Application, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSetupRegistersRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, http.StatusOK, get(app, "/ping").Code)
	assert.Equal(t, http.StatusOK, get(app, "/api/v1/areas").Code)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/moderation/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(app, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/submitData")
}

func TestSetupServesLocalMedia(t *testing.T) {
	app, store := newTestApp(t)

	key, err := store.Save(context.Background(), []byte("GIF89a"))
	require.NoError(t, err)

	w := get(app, "/media/"+key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GIF89a", w.Body.String())
}
