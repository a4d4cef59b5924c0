// health_test.go — unit-тесты readiness probe.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubChecker — фиксированный результат проверки зависимости.
type stubChecker struct {
	status  string
	message string
}

func (c *stubChecker) CheckReady() (string, string) {
	return c.status, c.message
}

func okChecker() ReadinessChecker   { return &stubChecker{status: "ok", message: "доступен"} }
func failChecker() ReadinessChecker { return &stubChecker{status: "fail", message: "недоступен"} }

// readyResponse — разбор ответа readiness probe в тестах.
type readyResponse struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"checks"`
}

func doHealthReady(t *testing.T, h *HealthHandler) (int, readyResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp readyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	return rec.Code, resp
}

// TestHealthReady_AllOK — все зависимости доступны.
func TestHealthReady_AllOK(t *testing.T) {
	h := NewHealthHandler(okChecker(), okChecker(), okChecker(), okChecker())

	code, resp := doHealthReady(t, h)
	if code != http.StatusOK {
		t.Errorf("HTTP статус = %d, хотели %d", code, http.StatusOK)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, хотели ok", resp.Status)
	}
}

// TestHealthReady_DependencyDown — отказ Redis и S3 обязан давать 503.
func TestHealthReady_DependencyDown(t *testing.T) {
	h := NewHealthHandler(okChecker(), failChecker(), failChecker(), okChecker())

	code, resp := doHealthReady(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("HTTP статус = %d, хотели %d", code, http.StatusServiceUnavailable)
	}
	if resp.Status != "fail" {
		t.Errorf("Status = %q, хотели fail", resp.Status)
	}
	if resp.Checks["redis"].Status != "fail" {
		t.Errorf("redis status = %q, хотели fail", resp.Checks["redis"].Status)
	}
	if resp.Checks["s3"].Status != "fail" {
		t.Errorf("s3 status = %q, хотели fail", resp.Checks["s3"].Status)
	}
}

// TestHealthReady_Degraded — degraded не роняет probe, но виден в итоге.
func TestHealthReady_Degraded(t *testing.T) {
	h := NewHealthHandler(okChecker(), okChecker(), okChecker(),
		&stubChecker{status: "degraded", message: "JWKS: нет ключей"})

	code, resp := doHealthReady(t, h)
	if code != http.StatusOK {
		t.Errorf("HTTP статус = %d, хотели %d", code, http.StatusOK)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, хотели degraded", resp.Status)
	}
}

// TestHealthReady_NilChecker — неинициализированная зависимость = fail.
func TestHealthReady_NilChecker(t *testing.T) {
	h := NewHealthHandler(okChecker(), nil, okChecker(), okChecker())

	code, resp := doHealthReady(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("HTTP статус = %d, хотели %d", code, http.StatusServiceUnavailable)
	}
	if resp.Status != "fail" {
		t.Errorf("Status = %q, хотели fail", resp.Status)
	}
}
