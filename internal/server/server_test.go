package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lgrando1/leo-tracker/internal/config"
	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/lgrando1/leo-tracker/internal/server"
	"github.com/lgrando1/leo-tracker/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:               "0",
		Location:           testutil.SaoPaulo(t),
		Target:             models.DailyTarget{Kcal: 1650, ProteinG: 110, CarbG: 200, FatG: 50},
		WeightGoal:         models.WeightGoal{TargetKg: 120, WeeklyRateKg: 0.8},
		ProjectionDays:     30,
		HistoryDays:        30,
		ReferenceEncodings: reference.DefaultEncodings,
	}
}

func TestServer_Health(t *testing.T) {
	srv := server.New(testutil.NewTestDatabase(t), testConfig(t))

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}
	if recorder.Body.String() != "ok" {
		t.Errorf("expected 'ok', got %q", recorder.Body.String())
	}
}

func TestServer_AccessTokenGuardsAPI(t *testing.T) {
	cfg := testConfig(t)
	cfg.AccessToken = "s3cret"
	srv := server.New(testutil.NewTestDatabase(t), cfg)

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/foods", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", recorder.Code)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
	request.Header.Set("Authorization", "Bearer s3cret")
	recorder = httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("expected health to stay open, got %d", recorder.Code)
	}
}

func TestServer_HealthReconnectsClosedHandle(t *testing.T) {
	client := testutil.NewTestDatabase(t)
	srv := server.New(client, testConfig(t))
	client.Close()

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("expected reconnect to recover the handle, got %d", recorder.Code)
	}
}
