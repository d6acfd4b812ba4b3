package api

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func gzipped(t *testing.T, data []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return &buf
}

func echoBody(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var got string
	e := echo.New()
	e.Use(GzipRequestMiddleware())
	e.POST("/", func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderContentEncoding) != "" {
			t.Errorf("content encoding should be cleared")
		}
		data, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		got = string(data)
		return c.NoContent(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestGzipRequestMiddlewareInflates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", gzipped(t, []byte(`[{"type":"expand-all"}]`)))
	req.Header.Set(echo.HeaderContentEncoding, "br, GZIP")

	rec, got := echoBody(t, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got != `[{"type":"expand-all"}]` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestGzipRequestMiddlewarePassThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("plain"))
	_, got := echoBody(t, req)
	if got != "plain" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestGzipRequestMiddlewareRejectsInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec, _ := echoBody(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGzipRequestMiddlewareCapsInflatedSize(t *testing.T) {
	big := bytes.Repeat([]byte("a"), maxInflatedBody+1024)
	req := httptest.NewRequest(http.MethodPost, "/", gzipped(t, big))
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	_, got := echoBody(t, req)
	if len(got) != maxInflatedBody {
		t.Fatalf("expected body capped at %d bytes, got %d", maxInflatedBody, len(got))
	}
}
