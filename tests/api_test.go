package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/adapter/api"
	"shopkeep/internal/adapter/api/handler"
	"shopkeep/internal/adapter/api/router"
	"shopkeep/internal/infrastructure/backend"
	"shopkeep/internal/infrastructure/localstore"
	"shopkeep/internal/infrastructure/mediahost"
	"shopkeep/internal/usecase"
)

// newTestApp wires the full pipeline against httptest stand-ins for the
// media host and the backend product API.
func newTestApp(t *testing.T, mediaURL, backendURL string, presets ...string) *echo.Echo {
	t.Helper()

	mediaHost := mediahost.NewClient(mediahost.Config{
		BaseURL:      mediaURL,
		AccountID:    "shop-123",
		Presets:      presets,
		Timeout:      5 * time.Second,
		RetryBackoff: time.Millisecond,
	})
	backendClient := backend.NewClient(backendURL, localstore.NewTokenStore("tok-123"), 5*time.Second)

	submitUseCase := usecase.NewSubmitUseCase(mediaHost, backendClient)
	wizardUseCase := usecase.NewWizardUseCase(submitUseCase, nil)
	handler.Setup(wizardUseCase, backendClient)

	e := echo.New()
	e.Validator = api.NewValidator()
	router.Setup(e)
	return e
}

func doJSON(e *echo.Echo, method, path string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func draftID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Data struct {
			Draft struct {
				ID string `json:"id"`
			} `json:"draft"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Draft.ID)
	return envelope.Data.Draft.ID
}

func attachImage(t *testing.T, e *echo.Echo, id, slot string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("slot", slot))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/drafts/"+id+"/images", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	e := newTestApp(t, "http://localhost:0", "http://localhost:0", "p")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestWizardFlowEndToEnd(t *testing.T) {
	var uploadPresets []string
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		preset := r.FormValue("upload_preset")
		uploadPresets = append(uploadPresets, preset)
		if preset != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"secure_url":"https://cdn.example/final.jpg","public_id":"img-1"}`)
	}))
	defer media.Close()

	var submitted map[string]interface{}
	backendAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		fmt.Fprint(w, `{"id":"prod-1","name":"Steel Bottle"}`)
	}))
	defer backendAPI.Close()

	// Two bad presets before the good one: scenario from the field where
	// the primary credential has expired
	e := newTestApp(t, media.URL, backendAPI.URL, "bad-1", "bad-2", "good")

	rec := doJSON(e, http.MethodPost, "/v1/drafts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := draftID(t, rec)

	rec = doJSON(e, http.MethodPatch, "/v1/drafts/"+id, `{
		"name": "Steel Bottle",
		"price": "250.00",
		"total_stock": "10",
		"online_stock": "4",
		"category_id": "cat-1"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	for i := 0; i < 3; i++ {
		rec = doJSON(e, http.MethodPost, "/v1/drafts/"+id+"/advance", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"moved":true`)
	}

	rec = attachImage(t, e, id, "main")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/drafts/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "prod-1")

	// Credential fallback ran in order and the final payload carries the
	// uploaded URL
	assert.Equal(t, []string{"bad-1", "bad-2", "good"}, uploadPresets)
	main, ok := submitted["main_image"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/final.jpg", main["url"])

	// The session is gone after a successful submit
	rec = doJSON(e, http.MethodGet, "/v1/drafts/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	mediaCalls := 0
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaCalls++
	}))
	defer media.Close()

	backendCalls := 0
	backendAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
	}))
	defer backendAPI.Close()

	e := newTestApp(t, media.URL, backendAPI.URL, "p")

	rec := doJSON(e, http.MethodPost, "/v1/drafts", "")
	id := draftID(t, rec)

	// Price only; the name stays empty
	doJSON(e, http.MethodPatch, "/v1/drafts/"+id, `{"price": "150.00"}`)

	rec = doJSON(e, http.MethodPost, "/v1/drafts/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Submit is only offered on the media step, but even there the check
	// runs before any network call
	assert.Zero(t, mediaCalls)
	assert.Zero(t, backendCalls)
}

func TestAttachRejectsFifthSubImage(t *testing.T) {
	e := newTestApp(t, "http://localhost:0", "http://localhost:0", "p")

	rec := doJSON(e, http.MethodPost, "/v1/drafts", "")
	id := draftID(t, rec)

	for i := 0; i < 4; i++ {
		rec = attachImage(t, e, id, "sub")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = attachImage(t, e, id, "sub")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "more than 4 sub images")
}

func TestEditModeMetadataOnlySubmit(t *testing.T) {
	mediaCalls := 0
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaCalls++
	}))
	defer media.Close()

	backendAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"prod-9","name":"Steel Bottle"}`)
	}))
	defer backendAPI.Close()

	e := newTestApp(t, media.URL, backendAPI.URL, "p")

	rec := doJSON(e, http.MethodPost, "/v1/drafts", `{"product": {
		"id": "prod-9",
		"name": "Steel Bottle",
		"price": "250.00",
		"total_stock": 10,
		"online_stock": 4,
		"channel": "BOTH",
		"category_id": "cat-1",
		"main_image": {"url": "https://cdn.example/m.jpg", "remote_id": "id-m"}
	}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := draftID(t, rec)

	for i := 0; i < 3; i++ {
		rec = doJSON(e, http.MethodPost, "/v1/drafts/"+id+"/advance", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"moved":true`)
	}

	rec = doJSON(e, http.MethodPost, "/v1/drafts/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Persisted images are never re-uploaded
	assert.Zero(t, mediaCalls)
}
