package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/server/http/handlers"
	testhelpers "github.com/shopflow/ordercore/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.CommerceFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			BuyerOrdersFn: func(context.Context, model.Actor, repository.Page) ([]model.Order, int, error) {
				return []model.Order{{ID: "o1", Status: model.OrderStatusPending}}, 1, nil
			},
		},
	}
	cfg := &config.Config{RateLimitPerMin: 30}
	engine := Setup(facade, cfg, nil, logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/myorders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected public catalog listing, got %d", resp.Code)
	}
}

var _ handlers.CommerceFacade = testhelpers.CommerceFacadeStub{}
