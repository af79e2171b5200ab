package monitoring_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasktrack/backend/internal/monitoring"

	"github.com/gin-gonic/gin"
)

func TestMonitor_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	monitor := monitoring.NewMonitor()

	router := gin.New()
	router.Use(monitor.Middleware())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	for _, path := range []string{"/ok", "/ok", "/boom"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	snap := monitor.Snapshot()
	if snap.RequestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", snap.RequestCount)
	}
	if snap.ErrorCount != 1 {
		t.Errorf("Expected 1 error, got %d", snap.ErrorCount)
	}
	if snap.Endpoints["GET /ok"] != 2 {
		t.Errorf("Expected 2 calls to GET /ok, got %d", snap.Endpoints["GET /ok"])
	}
}

func TestMonitor_HealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	monitor := monitoring.NewMonitor()
	monitor.RegisterHealthCheck("always_ok", func(ctx context.Context) error {
		return nil
	})

	router := gin.New()
	router.GET("/healthz", monitor.HealthHandler())

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("Expected healthy status, got %s", w.Body.String())
	}
}

func TestMonitor_HealthHandler_Unhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	monitor := monitoring.NewMonitor()
	monitor.RegisterHealthCheck("database", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	router := gin.New()
	router.GET("/healthz", monitor.HealthHandler())

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	if !strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("Expected check message in body, got %s", w.Body.String())
	}
}

func TestMonitor_MetricsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	monitor := monitoring.NewMonitor()

	router := gin.New()
	router.GET("/metrics", monitor.MetricsHandler())

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	for _, key := range []string{"application", "system", "goroutine_count"} {
		if !strings.Contains(w.Body.String(), key) {
			t.Errorf("Expected metrics body to contain %q", key)
		}
	}
}
