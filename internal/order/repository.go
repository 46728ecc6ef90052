package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/gmcandra/mebel-api/internal/database"
)

// Repository handles order persistence. All multi-row writes run inside a
// transaction so a failed checkout or reconciliation never leaves a
// partial order behind.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithItems persists an order and its items atomically.
func (r *Repository) CreateWithItems(ctx context.Context, o *Order) error {
	dbOrder := &database.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		ShippingName:    o.Shipping.Name,
		ShippingEmail:   o.Shipping.Email,
		ShippingAddress: o.Shipping.Address,
		ShippingCity:    o.Shipping.City,
		ShippingZip:     o.Shipping.Zip,
		ShippingPhone:   o.Shipping.Phone,
		ShippingNotes:   o.Shipping.Notes,
		TotalAmount:     o.TotalAmount,
		PaymentStatus:   string(o.PaymentStatus),
		SnapToken:       o.SnapToken,
	}

	dbItems := make([]*database.OrderItem, len(o.Items))
	for i, item := range o.Items {
		dbItems[i] = &database.OrderItem{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(dbOrder).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		if _, err := tx.NewInsert().Model(&dbItems).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
		return nil
	})
}

// GetByID loads an order with its items and product names.
func (r *Repository) GetByID(ctx context.Context, id string) (*Order, error) {
	dbOrder := new(database.Order)
	err := r.db.NewSelect().
		Model(dbOrder).
		Relation("Items").
		Relation("Items.Product").
		Where("o.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return mapDBOrderToModel(dbOrder), nil
}

// List returns one page of orders matching the filter, newest first,
// along with the total match count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Order, int, error) {
	var dbOrders []database.Order
	q := r.db.NewSelect().
		Model(&dbOrders).
		Relation("Items").
		Relation("Items.Product").
		Order("o.created_at DESC")

	if f.UserID != nil {
		q = q.Where("o.user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("o.payment_status = ?", string(*f.Status))
	}

	total, err := q.Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]Order, len(dbOrders))
	for i := range dbOrders {
		orders[i] = *mapDBOrderToModel(&dbOrders[i])
	}
	return orders, total, nil
}

// Delete removes an order and its items.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*database.OrderItem)(nil)).
			Where("order_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*database.Order)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrOrderNotFound
		}

		return nil
	})
}

// ApplyPaymentStatus transitions the order from PENDING to the given status
// and, for PAID, decrements the stock of every line item. The transition is
// conditional on the current status being PENDING, which makes webhook
// re-delivery idempotent: a second delivery affects zero rows and reports
// applied=false without touching stock.
func (r *Repository) ApplyPaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Order, bool, error) {
	applied := false

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*database.Order)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}

		result, err := tx.NewUpdate().
			Model((*database.Order)(nil)).
			Set("payment_status = ?", string(status)).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("payment_status = ?", string(StatusPending)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			// Already terminal; nothing more to do.
			return nil
		}
		applied = true

		if status != StatusPaid {
			return nil
		}

		var items []database.OrderItem
		if err := tx.NewSelect().
			Model(&items).
			Where("order_id = ?", id).
			Scan(ctx); err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		// Guarded decrement keeps stock non-negative even under
		// concurrent paid checkouts for the same product.
		for _, item := range items {
			result, err := tx.NewUpdate().
				Model((*database.Product)(nil)).
				Set("quantity = quantity - ?", item.Quantity).
				Set("updated_at = NOW()").
				Where("id = ?", item.ProductID).
				Where("quantity >= ?", item.Quantity).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if rowsAffected == 0 {
				return ErrStockConflict
			}
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return updated, applied, nil
}

func mapDBOrderToModel(dbo *database.Order) *Order {
	o := &Order{
		ID:     dbo.ID,
		UserID: dbo.UserID,
		Shipping: ShippingDetails{
			Name:    dbo.ShippingName,
			Email:   dbo.ShippingEmail,
			Address: dbo.ShippingAddress,
			City:    dbo.ShippingCity,
			Zip:     dbo.ShippingZip,
			Phone:   dbo.ShippingPhone,
			Notes:   dbo.ShippingNotes,
		},
		TotalAmount:   dbo.TotalAmount,
		PaymentStatus: PaymentStatus(dbo.PaymentStatus),
		SnapToken:     dbo.SnapToken,
		CreatedAt:     dbo.CreatedAt,
		UpdatedAt:     dbo.UpdatedAt,
	}

	for _, item := range dbo.Items {
		modelItem := Item{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			modelItem.ProductName = item.Product.Name
		}
		o.Items = append(o.Items, modelItem)
	}

	return o
}
