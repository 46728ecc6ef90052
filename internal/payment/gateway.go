// Package payment wraps the Midtrans Snap hosted-checkout API behind a
// narrow interface so the order orchestrator stays testable offline.
package payment

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Item is one checkout line passed to the gateway.
type Item struct {
	ID       string
	Name     string
	Price    int64
	Quantity int32
}

// Customer carries the shipping/billing details shown on the hosted page.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Zip     string
}

// Session is one hosted-checkout attempt issued by the gateway.
type Session struct {
	Token       string
	RedirectURL string
}

// Gateway creates hosted-checkout sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, orderID string, grossAmount int64, items []Item, customer Customer) (*Session, error)
}

// SnapGateway is the Midtrans Snap implementation of Gateway.
type SnapGateway struct {
	client snap.Client
}

func NewSnapGateway(serverKey string, production bool) *SnapGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	return &SnapGateway{client: client}
}

// CreateCheckoutSession requests a Snap transaction and returns its token
// and redirect URL. The Snap SDK does not take a context; the ctx parameter
// is part of the interface contract for other implementations.
func (g *SnapGateway) CreateCheckoutSession(_ context.Context, orderID string, grossAmount int64, items []Item, customer Customer) (*Session, error) {
	itemDetails := make([]midtrans.ItemDetails, len(items))
	for i, item := range items {
		itemDetails[i] = midtrans.ItemDetails{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Qty:   item.Quantity,
		}
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		Items: &itemDetails,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
			BillAddr: &midtrans.CustomerAddress{
				FName:    customer.Name,
				Phone:    customer.Phone,
				Address:  customer.Address,
				City:     customer.City,
				Postcode: customer.Zip,
			},
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway transaction: %w", err)
	}

	return &Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}
