package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronolens/config"
	"chronolens/controller"
	"chronolens/database"
	"chronolens/gemini"
	"chronolens/models"
	"chronolens/quota"
	"chronolens/route"
	"chronolens/scenes"
	"chronolens/storage"
)

type fakeModel struct {
	calls int
	out   []byte
}

func (f *fakeModel) EditImage(context.Context, []byte, string, string) (*gemini.Result, error) {
	f.calls++
	return &gemini.Result{Image: f.out, MIMEType: "image/jpeg"}, nil
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: 80, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type testAPI struct {
	router *gin.Engine
	model  *fakeModel
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", SignedURLTTL: 15 * time.Minute},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Quota:    config.QuotaConfig{DailyLimit: 30, GuestDailyLimit: 5},
		Location: time.UTC,
	}
	stores := &database.Stores{
		Scenes:   database.NewMemoryScenes(),
		Quotas:   database.NewMemoryQuotas(),
		Listings: database.NewMemoryListings(),
		Users:    database.NewMemoryUsers(),
	}
	model := &fakeModel{out: makeJPEG(t, 64, 48)}
	objects := storage.NewMemoryStore()
	tracker := quota.NewTracker(stores.Quotas, cfg.Location)
	service := scenes.NewService(cfg, stores, objects, model, tracker)
	handler := controller.New(cfg, stores, service, tracker)

	router := gin.New()
	route.Unprotected(router, handler, cfg)
	route.Protected(router, handler, cfg)

	return &testAPI{router: router, model: model}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) upload(t *testing.T, path, token string, photo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "street.jpg")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.TokenResponse](t, rec).Token
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "alice@example.com")

	// Duplicate registration is rejected.
	rec := api.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "another-pass",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[models.TokenResponse](t, rec).Token)

	rec = api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown accounts answer exactly like bad passwords.
	rec = api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/quota", "/scenes"} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := api.do(t, http.MethodGet, "/quota", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestGetsLowerQuota(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/auth/guest", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	guest := decode[models.TokenResponse](t, rec)
	assert.Equal(t, models.TierGuest, guest.Tier)

	rec = api.do(t, http.MethodGet, "/quota", guest.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(5), body["daily_limit"])
	assert.Equal(t, float64(0), body["daily_request_count"])
}

func TestSceneLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice@example.com")

	// Create a draft scene.
	rec := api.do(t, http.MethodPost, "/scenes", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	scene := decode[models.Scene](t, rec)
	require.NotEmpty(t, scene.ID)
	assert.Equal(t, models.StatusDraft, scene.Status)

	// Rendering before the original is attached is a precondition failure.
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", token,
		gin.H{"era": "showa", "variant": "balanced"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	// Attach the photo.
	rec = api.upload(t, "/scenes/"+scene.ID+"/original", token, makeJPEG(t, 80, 60))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Out-of-enum era fails validation, costing nothing.
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", token,
		gin.H{"era": "neolithic", "variant": "balanced"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, api.model.calls)

	// First render generates; second is a cache hit.
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", token,
		gin.H{"era": "showa", "variant": "balanced"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[scenes.RenderResult](t, rec)
	assert.False(t, first.Cached)

	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", token,
		gin.H{"era": "showa", "variant": "balanced"})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[scenes.RenderResult](t, rec)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Record.ContentHash, second.Record.ContentHash)
	assert.Equal(t, 1, api.model.calls)

	rec = api.do(t, http.MethodGet, "/quota", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["daily_request_count"])

	// A stranger cannot render or publish someone else's scene.
	intruder := api.register(t, "mallory@example.com")
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", intruder,
		gin.H{"era": "showa", "variant": "balanced"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/publish", intruder, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Draft outputs are invisible to anonymous viewers.
	viewPath := "/scenes/" + scene.ID + "/outputs/showa/balanced/view"
	rec = api.do(t, http.MethodGet, viewPath, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Publish, then the listing and the outputs open up.
	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	published := decode[map[string]string](t, rec)
	publicID := published["public_id"]
	require.NotEmpty(t, publicID)

	rec = api.do(t, http.MethodGet, "/public/"+publicID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, viewPath, "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Location"))

	// Download variant redirects with an attachment disposition URL.
	rec = api.do(t, http.MethodGet, "/scenes/"+scene.ID+"/outputs/showa/balanced/download", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "attachment")
}

func TestUnknownListingIs404(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/public/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderRejectsMissingFields(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/scenes", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	scene := decode[models.Scene](t, rec)

	rec = api.do(t, http.MethodPost, "/scenes/"+scene.ID+"/render", token, gin.H{"era": "showa"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
