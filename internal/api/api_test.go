package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/retail-backoffice/internal/api/middleware"
	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/planner"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/andresuchdata/retail-backoffice/internal/store/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	orders *service.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewSeeded()
	orders := service.NewOrderService(store, store, store, nil, nil)
	services := &Services{
		Planner:  service.NewPlannerService(planner.New(planner.Options{}), store, store, store, nil),
		Orders:   orders,
		Settings: service.NewSettingsService(store),
		Reports:  service.NewReportService(store),
	}

	return &testEnv{router: NewRouter(services, []string{"*"}), store: store, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) plan(t *testing.T) domain.Plan {
	t.Helper()

	w := e.do(t, http.MethodGet, "/api/v1/po/plan?supplier_id=SUP-01&delivery_date=2024-05-06", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan domain.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	return plan
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetPlan(t *testing.T) {
	env := newTestEnv(t)

	plan := env.plan(t)

	assert.Equal(t, "SUP-01", plan.SupplierID)
	assert.Equal(t, "2024-05-06", plan.DeliveryDate)
	assert.Equal(t, "2024-05-07", plan.TargetDate)
	assert.Len(t, plan.Window, planner.DefaultForecastDays)
	require.Len(t, plan.Items, 3)
	for _, item := range plan.Items {
		assert.Equal(t, "SUP-01", item.SupplierID)
		assert.Len(t, item.ProjectedStock, planner.DefaultForecastDays)
		assert.Zero(t, item.SuggestedOrderQuantity%planner.OrderUnit)
	}
	assert.Len(t, plan.StoreStock["SKU-1001"], 3)
}

func TestGetPlanValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		"/api/v1/po/plan?supplier_id=SUP-01",
		"/api/v1/po/plan?delivery_date=05-06-2024",
		"/api/v1/po/plan?delivery_date=2024-05-06&target_date=soon",
		"/api/v1/po/plan?delivery_date=2024-05-06&days=-2",
	}
	for _, path := range cases {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestPlanEdits(t *testing.T) {
	env := newTestEnv(t)
	plan := env.plan(t)
	itemID := plan.Items[0].ID

	t.Run("buffer", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/po/plan/buffer", gin.H{
			"items": plan.Items, "item_id": itemID, "buffer": 500, "target_date": plan.TargetDate,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res service.PlanItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 500, res.Items[0].Buffer)
		assert.GreaterOrEqual(t, res.Items[0].SuggestedOrderQuantity, 500-plan.Items[0].ProjectedStock[plan.TargetDate])
		assert.Equal(t, res.Items[0].SuggestedOrderQuantity, res.Items[0].OrderQuantity)
		assert.True(t, planner.TotalOrderValue(res.Items).Equal(res.TotalOrderValue))
	})

	t.Run("buffer requires fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/po/plan/buffer", gin.H{"items": plan.Items, "item_id": itemID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order quantity", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/po/plan/order-quantity", gin.H{"items": plan.Items, "item_id": itemID, "quantity": 7})
		require.Equal(t, http.StatusOK, w.Code)

		var res service.PlanItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 7, res.Items[0].OrderQuantity)
		assert.True(t, res.Items[0].OrderQuantityOverridden)

		w = env.do(t, http.MethodPost, "/api/v1/po/plan/order-quantity", gin.H{"items": plan.Items, "item_id": itemID, "quantity": -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPost, "/api/v1/po/plan/order-quantity", gin.H{"items": plan.Items, "item_id": "nope", "quantity": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("target date and apply suggested", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/po/plan/target-date", gin.H{"items": plan.Items, "target_date": plan.Window[len(plan.Window)-1]})
		require.Equal(t, http.StatusOK, w.Code)

		var res service.PlanItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

		w = env.do(t, http.MethodPost, "/api/v1/po/plan/apply-suggested", gin.H{"items": res.Items})
		require.Equal(t, http.StatusOK, w.Code)

		var applied service.PlanItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &applied))
		for _, item := range applied.Items {
			assert.Equal(t, item.SuggestedOrderQuantity, item.OrderQuantity)
		}
	})

	t.Run("save buffers", func(t *testing.T) {
		items := append([]domain.AggregatedItem(nil), plan.Items...)
		items[0].Buffer = 15

		w := env.do(t, http.MethodPost, "/api/v1/po/plan/buffers", gin.H{"items": items})
		require.Equal(t, http.StatusOK, w.Code)

		reloaded := env.plan(t)
		assert.Equal(t, 15, reloaded.Items[0].Buffer)
	})
}

func TestSubmitOrder(t *testing.T) {
	env := newTestEnv(t)

	items := []domain.AggregatedItem{{ID: "SKU-1001", UnitPrice: decimal.NewFromInt(62000), OrderQuantity: 10}}
	w := env.do(t, http.MethodPost, "/api/v1/po/orders", gin.H{"supplier_id": "SUP-01", "delivery_date": "2024-05-06", "items": items})
	env.orders.Wait()

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result domain.OrderResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.PONumber)
	assert.True(t, decimal.NewFromInt(620000).Equal(result.TotalAmount))
	assert.Len(t, env.store.Orders(), 1)

	w = env.do(t, http.MethodPost, "/api/v1/po/orders", gin.H{"supplier_id": "SUP-01", "delivery_date": "2024-05-06", "items": []domain.AggregatedItem{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/suppliers?search=sumber", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUP-01")

	w = env.do(t, http.MethodGet, "/api/v1/suppliers/SUP-99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/suppliers/SUP-02", gin.H{"name": "CV Cahaya", "lead_time_days": 5, "active": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lead_time_days":5`)

	w = env.do(t, http.MethodPut, "/api/v1/notification-groups/grp-ops", gin.H{"name": "Ops", "group_id": "C77", "enabled": true, "notify_on_order": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/notification-groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C77")

	w = env.do(t, http.MethodDelete, "/api/v1/notification-groups/grp-ops", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/notification-groups/grp-ops", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalesReport(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/reports/sales?from=2024-05-01&to=2024-05-07", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Days []domain.DailySalesTotal `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Days, 7)

	w = env.do(t, http.MethodGet, "/api/v1/reports/sales?from=2024-01-01&to=2024-12-31", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/reports/sales?from=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)
	assert.False(t, allowAll)

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, allowAll)
}
