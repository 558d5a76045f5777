package req

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatrelay/internal/pkg/errs"
)

func TestBindJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	cases := []struct {
		contentType string
		body        string
		wantCode    int
	}{
		{"application/json", `{"name":"g"}`, 0},
		{"text/plain", `{"name":"g"}`, errs.ErrUnsupportedMediaType},
		{"application/json", `{"name":`, errs.ErrInvalidJSONFormat},
		{"application/json", `{"nope":1}`, errs.ErrInvalidJSONFormat},
		{"application/json", `{"name":"a"} {"name":"b"}`, errs.ErrExtraContentInBody},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		r.Header.Set("Content-Type", tc.contentType)

		err := BindJSON(r, &dst)
		switch {
		case tc.wantCode == 0 && err != nil:
			t.Errorf("%s: unexpected error %v", tc.body, err)
		case tc.wantCode != 0 && (err == nil || err.Code != tc.wantCode):
			t.Errorf("%s: expected code %d, got %v", tc.body, tc.wantCode, err)
		}
	}
}

func TestSetupMultipartEnforcesLimit(t *testing.T) {
	build := func(size int) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, _ := mw.CreateFormFile("file", "a.png")
		fw.Write(bytes.Repeat([]byte("x"), size))
		mw.Close()

		r := httptest.NewRequest(http.MethodPost, "/", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		return r
	}

	if err := SetupMultipart(httptest.NewRecorder(), build(1024), 4096); err != nil {
		t.Fatalf("Small upload rejected: %v", err)
	}

	err := SetupMultipart(httptest.NewRecorder(), build(int(multipartOverhead)+8192), 4096)
	if err == nil || err.Code != errs.ErrRequestEntityTooLarge {
		t.Fatalf("Expected ErrRequestEntityTooLarge, got %v", err)
	}
}

func TestBindJSONBodyTooLarge(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	body := `{"name":"` + strings.Repeat("x", int(MaxJSONBodyBytes)) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrRequestEntityTooLarge {
		t.Errorf("Expected ErrRequestEntityTooLarge, got %v", customErr)
	}
}
