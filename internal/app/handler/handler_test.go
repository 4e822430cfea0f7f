package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"pereval/internal/app/config"
	"pereval/internal/app/ds"
	"pereval/internal/app/middleware"
	"pereval/internal/app/redis"
	"pereval/internal/app/repository"
	"pereval/internal/app/role"
	"pereval/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	// минимальный PNG 1x1
	pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

type memoryCache struct {
	mu   sync.Mutex
	data map[uint][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[uint][]byte{}}
}

func (m *memoryCache) GetPereval(_ context.Context, id uint) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[id]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return data, nil
}

func (m *memoryCache) SetPereval(_ context.Context, id uint, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
	return nil
}

func (m *memoryCache) InvalidatePereval(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memoryBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func (m *memoryBlacklist) WriteJWTToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = ttl
	return nil
}

func (m *memoryBlacklist) CheckJWTInBlacklist(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[token]
	return ok, nil
}

type testEnv struct {
	router    *gin.Engine
	handler   *Handler
	repo      *repository.Repository
	store     *storage.LocalStore
	cache     *memoryCache
	blacklist *memoryBlacklist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := repository.Open(config.DatabaseConfig{
		Type: config.DatabaseSQLite,
		Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	cache := newMemoryCache()
	h, err := NewHandler(repo, store, cache)
	require.NoError(t, err)

	blacklist := &memoryBlacklist{tokens: map[string]time.Duration{}}
	h.Blacklist = blacklist

	cfg := &config.Config{JWT: config.JWTConfig{Token: testSecret, SigningMethod: jwt.SigningMethodHS256}}
	router := gin.New()
	h.RegisterRoutes(router, middleware.NewAuthMiddleware(blacklist, cfg))

	return &testEnv{
		router:    router,
		handler:   h,
		repo:      repo,
		store:     store,
		cache:     cache,
		blacklist: blacklist,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func moderatorToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		UserID:         1,
		Role:           role.Moderator,
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func submitBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"beauty_title": "пер. ",
		"title":        "Пхия",
		"other_titles": "Триев",
		"connect":      "",
		"user": map[string]interface{}{
			"email": email,
			"fam":   "Пупкин",
			"name":  "Василий",
			"otc":   "Иванович",
			"phone": "+7 555 555 55 55",
		},
		"coords": map[string]interface{}{
			"latitude":  "45.3842",
			"longitude": "7.1525",
			"height":    1200,
		},
		"level": map[string]interface{}{
			"winter": "",
			"summer": "1А",
			"autumn": "1А",
			"spring": "",
		},
		"images": []interface{}{
			map[string]interface{}{"data": pngBase64, "title": "Седловина"},
			map[string]interface{}{"data": "pereval_images/old.jpg", "title": "Подъем"},
		},
	}
}

func submit(t *testing.T, env *testEnv, body interface{}) uint {
	t.Helper()
	w, resp := env.do(t, http.MethodPost, "/api/v1/submitData", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(resp["id"].(float64))
}

func TestEndToEndSubmitAndGet(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/submitData", map[string]interface{}{
		"user":   map[string]interface{}{"email": "a@x.com", "fam": "F", "name": "N"},
		"coords": map[string]interface{}{"latitude": 1, "longitude": 2},
		"title":  "T",
		"images": []interface{}{map[string]interface{}{"data": "...", "title": "Img1"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(200), resp["status"])
	assert.Equal(t, "success", resp["message"])
	id := resp["id"].(float64)

	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submitData/%d", int(id)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "T", data["title"])
	assert.Equal(t, "new", data["status"])
	assert.Len(t, data["images"], 1)
}

func TestSubmitDataStoresImages(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("img@x.com"))

	pereval, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, pereval.Images, 2)

	uploaded := pereval.Images[0].Data
	assert.True(t, strings.HasPrefix(uploaded, "pereval_images/"))
	assert.True(t, strings.HasSuffix(uploaded, ".png"))
	_, err = os.Stat(filepath.Join(env.store.Root(), filepath.FromSlash(uploaded)))
	assert.NoError(t, err)

	// ключ уже загруженного объекта сохраняется как есть
	assert.Equal(t, "pereval_images/old.jpg", pereval.Images[1].Data)

	_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submitData/%d", id), nil)
	images := resp["data"].(map[string]interface{})["images"].([]interface{})
	assert.Equal(t, "/media/"+uploaded, images[0].(map[string]interface{})["data"])
}

func TestSubmitDataValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		field  string
	}{
		{name: "missing user", mutate: func(b map[string]interface{}) { delete(b, "user") }, field: "user"},
		{name: "bad email", mutate: func(b map[string]interface{}) {
			b["user"].(map[string]interface{})["email"] = "not-an-email"
		}, field: "user.email"},
		{name: "bad phone", mutate: func(b map[string]interface{}) {
			b["user"].(map[string]interface{})["phone"] = "call me maybe"
		}, field: "user.phone"},
		{name: "missing title", mutate: func(b map[string]interface{}) { delete(b, "title") }, field: "title"},
		{name: "bad level", mutate: func(b map[string]interface{}) {
			b["level"].(map[string]interface{})["winter"] = "5Z"
		}, field: "level.winter"},
		{name: "latitude out of range", mutate: func(b map[string]interface{}) {
			b["coords"].(map[string]interface{})["latitude"] = 91
		}, field: "coords.latitude"},
		{name: "image without title", mutate: func(b map[string]interface{}) {
			b["images"] = []interface{}{map[string]interface{}{"data": "x.jpg"}}
		}, field: "images[0].title"},
		{name: "broken data uri", mutate: func(b map[string]interface{}) {
			b["images"] = []interface{}{map[string]interface{}{"data": "data:image/png;base64,@@@", "title": "x"}}
		}, field: "images[0].data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := submitBody("valid@x.com")
			tt.mutate(body)

			w, resp := env.do(t, http.MethodPost, "/api/v1/submitData", body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, float64(400), resp["status"])
			assert.Equal(t, "bad request", resp["message"])
			errs := resp["errors"].(map[string]interface{})
			assert.Contains(t, errs, tt.field)
		})
	}

	// ни одна ошибочная отправка не дошла до базы
	perevals, err := env.repo.ListPerevalsByEmail(context.Background(), "valid@x.com")
	require.NoError(t, err)
	assert.Empty(t, perevals)
}

func TestSubmitDataMalformedJSON(t *testing.T) {
	env := newTestEnv(t)
	w, resp := env.do(t, http.MethodPost, "/api/v1/submitData", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["errors"], nonFieldErrors)
}

func TestSubmitDataReusesUser(t *testing.T) {
	env := newTestEnv(t)
	first := submit(t, env, submitBody("same@x.com"))

	body := submitBody("same@x.com")
	body["user"].(map[string]interface{})["fam"] = "Другой"
	body["user"].(map[string]interface{})["phone"] = "8 800 555 35 35"
	second := submit(t, env, body)

	a, err := env.repo.GetPereval(context.Background(), first)
	require.NoError(t, err)
	b, err := env.repo.GetPereval(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, a.UserID, b.UserID)
	assert.Equal(t, "Пупкин", b.User.Fam)
}

func TestGetPerevalNotFound(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/submitData/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(404), resp["status"])
	assert.Equal(t, "not found", resp["message"])
	assert.Contains(t, resp, "data")
	assert.Nil(t, resp["data"])

	w, _ = env.do(t, http.MethodGet, "/api/v1/submitData/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPerevalUsesCache(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("cache@x.com"))

	w, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submitData/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := env.cache.GetPereval(context.Background(), id)
	require.NoError(t, err)

	w, resp := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/submitData/%d", id), map[string]interface{}{"title": "Новое"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "edited", resp["message"])

	_, err = env.cache.GetPereval(context.Background(), id)
	assert.ErrorIs(t, err, redis.ErrCacheMiss)

	_, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submitData/%d", id), nil)
	assert.Equal(t, "Новое", resp["data"].(map[string]interface{})["title"])
}

func TestUpdatePereval(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("patch@x.com"))
	before, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	uploaded := before.Images[0].Data

	w, resp := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/submitData/%d", id), map[string]interface{}{
		"coords": map[string]interface{}{"height": 2000},
		"level":  map[string]interface{}{"winter": "2Б"},
		"user":   map[string]interface{}{"email": "other@x.com", "fam": "X", "name": "Y"},
		"images": []interface{}{
			map[string]interface{}{"id": before.Images[1].ID, "title": "Подъем зимой"},
			map[string]interface{}{"data": pngBase64, "title": "Новое"},
		},
		"images_to_delete": []uint{before.Images[0].ID, 999},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(200), resp["status"])
	assert.Equal(t, float64(id), resp["id"])

	after, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	assert.InDelta(t, 45.3842, after.Coords.Latitude, 1e-6)
	assert.Equal(t, 2000, *after.Coords.Height)
	assert.Equal(t, "2Б", after.Level.Winter)
	assert.Equal(t, "1А", after.Level.Summer)
	assert.Equal(t, "patch@x.com", after.User.Email)
	require.Len(t, after.Images, 2)
	assert.Equal(t, "Подъем зимой", after.Images[0].Title)
	assert.Equal(t, "Новое", after.Images[1].Title)

	// удаленный объект убран из хранилища
	_, err = os.Stat(filepath.Join(env.store.Root(), filepath.FromSlash(uploaded)))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdatePerevalErrors(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("errors@x.com"))
	path := fmt.Sprintf("/api/v1/submitData/%d", id)

	w, resp := env.do(t, http.MethodPatch, "/api/v1/submitData/999", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", resp["message"])

	w, resp = env.do(t, http.MethodPatch, path, map[string]interface{}{
		"images": []interface{}{map[string]interface{}{"title": "без данных"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["errors"], "images[0].data")

	w, _ = env.do(t, http.MethodPatch, path, map[string]interface{}{
		"images": []interface{}{map[string]interface{}{"id": 12345, "title": "чужое"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, env.repo.SetStatus(context.Background(), id, ds.StatusPending))
	w, resp = env.do(t, http.MethodPatch, path, map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(400), resp["status"])
	assert.Equal(t, "editing is allowed only for records with status 'new'", resp["message"])

	pereval, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Пхия", pereval.Title)
}

func TestUpdatePerevalRejectsBlankImageFields(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("blank@x.com"))
	before, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	image := before.Images[0]

	w, resp := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/submitData/%d", id), map[string]interface{}{
		"images": []interface{}{map[string]interface{}{"id": image.ID, "data": "", "title": ""}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(t, errs, "images[0].data")
	assert.Contains(t, errs, "images[0].title")

	after, err := env.repo.GetPereval(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, image.Data, after.Images[0].Data)
	assert.Equal(t, image.Title, after.Images[0].Title)
	_, err = os.Stat(filepath.Join(env.store.Root(), filepath.FromSlash(image.Data)))
	assert.NoError(t, err)
}

func TestSubmitDataStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.repo.Close())

	w, resp := env.do(t, http.MethodPost, "/api/v1/submitData", submitBody("broken@x.com"))
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	assert.Equal(t, float64(500), resp["status"])
	assert.Equal(t, "failed to save pereval", resp["message"])
	assert.Contains(t, resp, "id")
	assert.Nil(t, resp["id"])

	// загруженное до транзакции изображение удалено
	var files []string
	err := filepath.WalkDir(env.store.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListByEmail(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, submitBody("list@x.com"))
	submit(t, env, submitBody("list@x.com"))
	submit(t, env, submitBody("someone@x.com"))

	w, resp := env.do(t, http.MethodGet, "/api/v1/submitData/?user__email=list@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	for _, item := range data {
		assert.Len(t, item.(map[string]interface{})["images"], 2)
	}

	w, resp = env.do(t, http.MethodGet, "/api/v1/submitData/?user__email=nobody@x.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", resp["message"])
	assert.Equal(t, []interface{}{}, resp["data"])

	w, resp = env.do(t, http.MethodGet, "/api/v1/submitData/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user__email is required", resp["message"])
	assert.Equal(t, []interface{}{}, resp["data"])
}

func TestReferenceLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.repo.SeedActivityTypes(ctx, repository.DefaultActivityTypes)
	require.NoError(t, err)
	_, err = env.repo.CreateArea(ctx, "Алтай", nil)
	require.NoError(t, err)

	w, resp := env.do(t, http.MethodGet, "/api/v1/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], len(repository.DefaultActivityTypes))

	w, resp = env.do(t, http.MethodGet, "/api/v1/areas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	areas := resp["data"].([]interface{})
	require.Len(t, areas, 1)
	assert.Equal(t, "Алтай", areas[0].(map[string]interface{})["title"])

	body := submitBody("ref@x.com")
	body["area_id"] = 999
	w, _ = env.do(t, http.MethodPost, "/api/v1/submitData", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModeration(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, submitBody("moderation@x.com"))
	path := fmt.Sprintf("/api/v1/moderation/%d", id)
	token := moderatorToken(t)
	auth := []string{"Authorization", "Bearer " + token}

	w, _ := env.do(t, http.MethodPatch, path, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodPatch, path, map[string]interface{}{"status": "accepted"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPatch, path, map[string]interface{}{"status": "unknown"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := env.do(t, http.MethodPatch, path, map[string]interface{}{"status": "pending"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "status changed", resp["message"])

	_, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/submitData/%d", id), nil)
	assert.Equal(t, "pending", resp["data"].(map[string]interface{})["status"])

	w, _ = env.do(t, http.MethodPatch, "/api/v1/moderation/999", map[string]interface{}{"status": "pending"}, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/moderation/logout", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"status": float64(200), "message": "logged out"}, resp)
	assert.Contains(t, env.blacklist.tokens, token)

	w, _ = env.do(t, http.MethodPatch, path, map[string]interface{}{"status": "accepted"}, auth...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)
	w, resp := env.do(t, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", resp["message"])
}
