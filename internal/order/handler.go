package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gmcandra/mebel-api/internal/auth"
	"github.com/gmcandra/mebel-api/internal/httputil"
	"github.com/gmcandra/mebel-api/internal/logging"
)

// Handler contains the HTTP handlers for checkout and order endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// CreateTransactionRequest is the checkout request body.
type CreateTransactionRequest struct {
	Shipping ShippingDetails `json:"shipping"`
	Items    []CheckoutItem  `json:"items"`
}

// NotificationRequest is the payment gateway webhook body. The gateway
// sends more fields; only these drive the status transition.
type NotificationRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// CreateTransaction handles POST /orders/create-transaction
// @Summary      Create a checkout transaction
// @Description  Validate the cart, open a hosted-checkout session and persist a PENDING order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTransactionRequest true "Checkout details"
// @Success      201 {object} httputil.Response
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /orders/create-transaction [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.CreateTransaction(r.Context(), userID, req.Shipping, req.Items)
	if err != nil {
		var invalidItem *InvalidItemError
		var insufficientStock *InsufficientStockError
		switch {
		case errors.Is(err, ErrUserNotFound):
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
		case errors.Is(err, ErrEmptyItems):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
		case errors.As(err, &invalidItem):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidItem, http.StatusBadRequest)
		case errors.As(err, &insufficientStock):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInsufficientStock, http.StatusBadRequest)
		default:
			logger.Error("failed to create transaction", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create transaction", httputil.CodeUpstreamError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, "Transaction successfully created", result)
}

// Notification handles POST /orders/payments/notification
// The gateway's payload signature is not verified here; deployments
// restrict this route at the edge.
// @Summary      Payment gateway webhook
// @Description  Apply a payment status notification. Repeat deliveries are acknowledged without side effects.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body NotificationRequest true "Gateway notification"
// @Success      200 {object} httputil.Response
// @Failure      404 {object} httputil.ErrorResponse "Unknown order"
// @Router       /orders/payments/notification [post]
func (h *Handler) Notification(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if req.OrderID == "" {
		httputil.RespondErrorWithCode(w, "order_id is required", httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	err := h.service.HandleNotification(r.Context(), req.OrderID, req.TransactionStatus, req.FraudStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httputil.RespondErrorWithCode(w, "order not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrStockConflict) {
			logger.Error("stock conflict while applying payment",
				"order_id", req.OrderID)
			httputil.RespondErrorWithCode(w, "insufficient stock for paid order", httputil.CodeInsufficientStock, http.StatusConflict)
			return
		}
		logger.Error("failed to process payment notification",
			"order_id", req.OrderID,
			"error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to process notification", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Notification processed", nil)
}

// List handles GET /orders
// @Summary      List orders
// @Description  Admins see all orders; other callers only their own. Supports status filter and pagination.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "Payment status filter"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} httputil.Response
// @Router       /orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}
	role, _ := auth.GetUserRoleFromContext(r.Context())

	var filter ListFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := PaymentStatus(raw)
		if !status.Valid() {
			httputil.RespondErrorWithCode(w, "invalid status filter", httputil.CodeValidation, http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	filter.Page = queryInt(r, "page", 1)
	filter.PageSize = queryInt(r, "page_size", defaultPageSize)

	page, err := h.service.ListOrders(r.Context(), userID, role, filter)
	if err != nil {
		logger.Error("failed to list orders", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch orders", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Orders successfully fetched", page)
}

// Get handles GET /orders/{id}
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} httputil.Response
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /orders/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}
	role, _ := auth.GetUserRoleFromContext(r.Context())

	id := chi.URLParam(r, "id")

	o, err := h.service.GetOrder(r.Context(), userID, role, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httputil.RespondErrorWithCode(w, "order not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrForbidden) {
			httputil.RespondErrorWithCode(w, "access to this order is forbidden", httputil.CodeForbidden, http.StatusForbidden)
			return
		}
		logger.Error("failed to get order", "order_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch order", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Order successfully fetched", o)
}

// Delete handles DELETE /orders/{id}
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} httputil.Response
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /orders/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httputil.RespondErrorWithCode(w, "order not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete order", "order_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete order", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Order successfully deleted", nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
