package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestService(t *testing.T, endpoint string) StorageService {
	t.Helper()

	svc, err := NewStorageService(context.Background(), ServiceConfig{
		S3BucketName:      "chat-media",
		S3Endpoint:        endpoint,
		S3AccessKeyID:     "access",
		S3SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewStorageService failed: %v", err)
	}
	return svc
}

func TestPresignDownloadURL(t *testing.T) {
	svc := newTestService(t, "http://localhost:9000")

	url, err := svc.PresignDownload(context.Background(), "media/abc.png", 5*time.Minute)
	if err != nil {
		t.Fatalf("PresignDownload failed: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:9000/chat-media/media/abc.png?") {
		t.Errorf("Unexpected presigned URL %s", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") || !strings.Contains(url, "X-Amz-Expires=300") {
		t.Errorf("Presigned URL is missing signature parameters: %s", url)
	}
}

func TestPresignUploadURL(t *testing.T) {
	svc := newTestService(t, "http://localhost:9000")

	url, err := svc.PresignUpload(context.Background(), "media/abc.mp4", "video/mp4", 1024, time.Minute)
	if err != nil {
		t.Fatalf("PresignUpload failed: %v", err)
	}
	if !strings.Contains(url, "/chat-media/media/abc.mp4?") || !strings.Contains(url, "X-Amz-Signature=") {
		t.Errorf("Unexpected presigned URL %s", url)
	}
}

func TestUploadPutsObject(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		ctype  string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)

		mu.Lock()
		method, path, ctype = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		mu.Unlock()

		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	err := svc.Upload(context.Background(), "media/abc.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if method != http.MethodPut || path != "/chat-media/media/abc.png" {
		t.Errorf("Unexpected request %s %s", method, path)
	}
	if ctype != "image/png" {
		t.Errorf("Expected content type image/png, got %q", ctype)
	}
}

func TestUploadReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	if err := svc.Upload(context.Background(), "media/abc.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("Expected upload to fail")
	}
}
