package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rewardly/giftvault/internal/server/http/handlers"
	testhelpers "github.com/rewardly/giftvault/internal/test"
)

type healthOK struct{}

func (healthOK) HealthCheck(ctx context.Context) error { return nil }

func newTestEngine(facade handlers.GiftFacade, adminToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, handlers.NewHealthHandler(healthOK{}), adminToken, logger)
}

func TestSetupRoutes(t *testing.T) {
	engine := newTestEngine(&testhelpers.GiftFacadeStub{}, "secret")

	body, _ := json.Marshal(map[string]int64{"person_id": 1, "gift_id": 2})
	req := httptest.NewRequest(http.MethodPost, "/api/redemptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for create, got %d", resp.Code)
	}

	body, _ = json.Marshal(map[string]string{"code": "abc"})
	req = httptest.NewRequest(http.MethodPost, "/api/redemptions/claim", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for claim, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/redemptions/7", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for get, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/persons/7/ledger", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for empty ledger, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for health, got %d", resp.Code)
	}
}

func TestDeleteRequiresAdminToken(t *testing.T) {
	engine := newTestEngine(&testhelpers.GiftFacadeStub{}, "secret")

	req := httptest.NewRequest(http.MethodDelete, "/api/redemptions/7", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/redemptions/7", nil)
	req.Header.Set("X-Admin-Token", "secret")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 with token, got %d", resp.Code)
	}
}

func TestGzipRequestBodyAccepted(t *testing.T) {
	engine := newTestEngine(&testhelpers.GiftFacadeStub{}, "")

	payload, _ := json.Marshal(map[string]int64{"person_id": 1, "gift_id": 2})
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(payload)
	_ = gz.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/redemptions", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for gzip body, got %d", resp.Code)
	}
}

var _ handlers.GiftFacade = (*testhelpers.GiftFacadeStub)(nil)
