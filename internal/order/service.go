package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/catalog"
	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/notify"
	"github.com/gmcandra/mebel-api/internal/payment"
	"github.com/gmcandra/mebel-api/internal/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderStore is the persistence interface the service depends on.
type OrderStore interface {
	CreateWithItems(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, int, error)
	Delete(ctx context.Context, id string) error
	ApplyPaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Order, bool, error)
}

// ProductStore batch-loads products for checkout validation.
type ProductStore interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error)
}

// UserStore resolves push recipients.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	AdminPushTokens(ctx context.Context) ([]string, error)
}

// Service orchestrates checkout, payment reconciliation and order access.
type Service struct {
	orders   OrderStore
	products ProductStore
	users    UserStore
	gateway  payment.Gateway
	pusher   notify.Pusher
	logger   *logging.Logger
}

func NewService(
	orders OrderStore,
	products ProductStore,
	users UserStore,
	gateway payment.Gateway,
	pusher notify.Pusher,
	logger *logging.Logger,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		gateway:  gateway,
		pusher:   pusher,
		logger:   logger,
	}
}

// CreateTransaction validates the requested items against the catalog,
// snapshots their current prices, opens a hosted-checkout session and
// persists the order as PENDING. Prices always come from the catalog,
// never from the request.
func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, shipping ShippingDetails, items []CheckoutItem) (*CheckoutResult, error) {
	// Session tokens outlive account deletion; the caller must still exist.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidItemError{ProductID: item.ProductID}
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var total int64
	orderItems := make([]Item, 0, len(items))
	gatewayItems := make([]payment.Item, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, &InvalidItemError{ProductID: item.ProductID}
		}
		if item.Quantity > product.Quantity {
			return nil, &InsufficientStockError{ProductName: product.Name}
		}

		total += product.Price * int64(item.Quantity)
		orderItems = append(orderItems, Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
		gatewayItems = append(gatewayItems, payment.Item{
			ID:       product.ID.String(),
			Name:     product.Name,
			Price:    product.Price,
			Quantity: int32(item.Quantity),
		})
	}

	orderID := newOrderID()

	session, err := s.gateway.CreateCheckoutSession(ctx, orderID, total, gatewayItems, payment.Customer{
		Name:    shipping.Name,
		Email:   shipping.Email,
		Phone:   shipping.Phone,
		Address: shipping.Address,
		City:    shipping.City,
		Zip:     shipping.Zip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	o := &Order{
		ID:            orderID,
		UserID:        userID,
		Shipping:      shipping,
		TotalAmount:   total,
		PaymentStatus: StatusPending,
		SnapToken:     session.Token,
		Items:         orderItems,
	}

	if err := s.orders.CreateWithItems(ctx, o); err != nil {
		// The gateway session already exists; it will expire unpaid on
		// the gateway side, but leave a trace for reconciliation.
		s.logger.Error("orphaned checkout session",
			"order_id", orderID,
			"snap_token", session.Token,
			"error", err.Error())
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	go s.notifyAdmins(orderID, total)

	return &CheckoutResult{
		OrderID:     orderID,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

// HandleNotification processes one payment webhook delivery. Repeat
// deliveries for the same order are acknowledged without side effects.
func (s *Service) HandleNotification(ctx context.Context, orderID, transactionStatus, fraudStatus string) error {
	status := StatusFromGateway(transactionStatus, fraudStatus)

	if status == StatusPending {
		// Nothing to transition; confirm the order exists so unknown
		// IDs are still rejected.
		if _, err := s.orders.GetByID(ctx, orderID); err != nil {
			return err
		}
		return nil
	}

	o, applied, err := s.orders.ApplyPaymentStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("duplicate payment notification ignored",
			"order_id", orderID,
			"status", string(status))
		return nil
	}

	if status == StatusPaid {
		go s.notifyPaid(o)
	}

	return nil
}

// ListOrders returns one page of orders. Non-admin callers only ever see
// their own orders regardless of the requested filter.
func (s *Service) ListOrders(ctx context.Context, callerID uuid.UUID, callerRole user.Role, f ListFilter) (*Page, error) {
	if callerRole != user.RoleAdmin {
		f.UserID = &callerID
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	orders, total, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPages := (total + f.PageSize - 1) / f.PageSize
	if orders == nil {
		orders = []Order{}
	}

	return &Page{
		Orders:     orders,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetOrder returns a single order. Non-admin callers may only read
// orders they own.
func (s *Service) GetOrder(ctx context.Context, callerID uuid.UUID, callerRole user.Role, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole != user.RoleAdmin && o.UserID != callerID {
		return nil, ErrForbidden
	}

	return o, nil
}

// DeleteOrder removes an order. The router restricts this to admins.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

func (s *Service) notifyAdmins(orderID string, total int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokens, err := s.users.AdminPushTokens(ctx)
	if err != nil {
		s.logger.Error("failed to load admin push tokens", "error", err.Error())
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := fmt.Sprintf("Order %s created, total Rp%d", orderID, total)
	if err := s.pusher.Push(ctx, tokens, "New order received", body); err != nil {
		s.logger.Error("failed to push admin notification",
			"order_id", orderID,
			"error", err.Error())
	}
}

func (s *Service) notifyPaid(o *Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	owner, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		s.logger.Error("failed to load order owner", "order_id", o.ID, "error", err.Error())
	} else if owner.FCMToken != nil && *owner.FCMToken != "" {
		body := fmt.Sprintf("Payment for order %s was received", o.ID)
		if err := s.pusher.Push(ctx, []string{*owner.FCMToken}, "Payment confirmed", body); err != nil {
			s.logger.Error("failed to push owner notification",
				"order_id", o.ID,
				"error", err.Error())
		}
	}

	tokens, err := s.users.AdminPushTokens(ctx)
	if err != nil {
		s.logger.Error("failed to load admin push tokens", "error", err.Error())
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := fmt.Sprintf("Order %s is paid, total Rp%d", o.ID, o.TotalAmount)
	if err := s.pusher.Push(ctx, tokens, "Order paid", body); err != nil {
		s.logger.Error("failed to push admin notification",
			"order_id", o.ID,
			"error", err.Error())
	}
}

func newOrderID() string {
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
