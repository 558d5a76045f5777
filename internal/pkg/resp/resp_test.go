package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"chatrelay/internal/pkg/errs"
)

func serve(t *testing.T, h http.HandlerFunc) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	middleware.RequestID(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	return rec, body
}

func TestRespondSuccess(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		RespondSuccess(w, r, map[string]any{"connections": 3})
	})

	if rec.Code != http.StatusOK || body.Code != 0 {
		t.Errorf("Expected 200/0, got %d/%d", rec.Code, body.Code)
	}
	if body.RequestID == "" {
		t.Error("Expected the request ID to be echoed")
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Unexpected Content-Type %q", rec.Header().Get("Content-Type"))
	}
}

func TestRespondError(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
	})

	if rec.Code != http.StatusUnauthorized || body.Code != errs.ErrUnauthorized {
		t.Errorf("Expected 401/%d, got %d/%d", errs.ErrUnauthorized, rec.Code, body.Code)
	}
	if body.Data != nil {
		t.Errorf("Error responses carry no data, got %v", body.Data)
	}
}

func TestRespondErrorNil(t *testing.T) {
	_, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, r, nil)
	})

	if body.Code != errs.ErrUnknown {
		t.Errorf("Expected ErrUnknown for nil, got %d", body.Code)
	}
}
