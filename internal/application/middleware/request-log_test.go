package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSkipLogging(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/weather-api/health", true},
		{"/metrics", true},
		{"/swagger/index.html", true},
		{"/weather-api/search", false},
		{"/weather-api/location", false},
	}

	for _, tt := range tests {
		if got := skipLogging(tt.path); got != tt.want {
			t.Errorf("skipLogging(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	e := echo.New()
	SetupRequestLogger(e)
	e.GET("/search", func(c echo.Context) error {
		return c.String(http.StatusTeapot, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
