package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/auth"
	"github.com/gmcandra/mebel-api/internal/catalog"
	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/user"
)

func authedRequest(r *http.Request, userID uuid.UUID, role user.Role) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleContextKey, role)
	return r.WithContext(ctx)
}

func TestHandler_Notification(t *testing.T) {
	orders := newFakeOrderStore()
	orders.orders["ORDER-1"] = &Order{ID: "ORDER-1", UserID: uuid.New(), PaymentStatus: StatusPending}
	svc := newTestService(orders, &fakeProductStore{}, nil, &fakeGateway{})
	h := NewHandler(svc, logging.NewLogger(true))

	t.Run("settlement", func(t *testing.T) {
		body := `{"order_id":"ORDER-1","transaction_status":"settlement","fraud_status":""}`
		req := httptest.NewRequest(http.MethodPost, "/orders/payments/notification", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Notification(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
		}
		stored, _ := orders.GetByID(context.Background(), "ORDER-1")
		if stored.PaymentStatus != StatusPaid {
			t.Errorf("order status = %s, want PAID", stored.PaymentStatus)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		body := `{"order_id":"ORDER-missing","transaction_status":"settlement"}`
		req := httptest.NewRequest(http.MethodPost, "/orders/payments/notification", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Notification(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing order id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/payments/notification", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.Notification(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/payments/notification", strings.NewReader(`{`))
		rec := httptest.NewRecorder()

		h.Notification(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandler_CreateTransaction(t *testing.T) {
	chair := testProduct("Teak Chair", 450_000, 10)
	orders := newFakeOrderStore()
	callerID := uuid.New()
	svc := newTestService(orders, &fakeProductStore{products: []catalog.Product{chair}}, userStoreWith(callerID), &fakeGateway{})
	h := NewHandler(svc, logging.NewLogger(true))

	t.Run("missing auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/create-transaction", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.CreateTransaction(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		payload := CreateTransactionRequest{
			Shipping: ShippingDetails{Name: "Budi", Email: "budi@example.com"},
			Items:    []CheckoutItem{{ProductID: chair.ID, Quantity: 2}},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/orders/create-transaction", strings.NewReader(string(body)))
		req = authedRequest(req, callerID, user.RoleUser)
		rec := httptest.NewRecorder()

		h.CreateTransaction(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
		}

		var resp struct {
			Status bool           `json:"status"`
			Data   CheckoutResult `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Status {
			t.Error("status must be true")
		}
		if resp.Data.Token != "snap-token" {
			t.Errorf("token = %q", resp.Data.Token)
		}
		if resp.Data.OrderID == "" {
			t.Error("order id must be set")
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		payload := CreateTransactionRequest{
			Items: []CheckoutItem{{ProductID: chair.ID, Quantity: 99}},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/orders/create-transaction", strings.NewReader(string(body)))
		req = authedRequest(req, callerID, user.RoleUser)
		rec := httptest.NewRecorder()

		h.CreateTransaction(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		payload := CreateTransactionRequest{
			Items: []CheckoutItem{{ProductID: chair.ID, Quantity: 1}},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/orders/create-transaction", strings.NewReader(string(body)))
		req = authedRequest(req, uuid.New(), user.RoleUser)
		rec := httptest.NewRecorder()

		h.CreateTransaction(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/create-transaction", strings.NewReader(`{"items":[]}`))
		req = authedRequest(req, callerID, user.RoleUser)
		rec := httptest.NewRecorder()

		h.CreateTransaction(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
