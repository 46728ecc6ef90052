package catalog

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCategoryInput_Validate(t *testing.T) {
	if err := (&CategoryInput{Name: "Chairs"}).Validate(); err != nil {
		t.Errorf("valid input: %v", err)
	}
	if err := (&CategoryInput{Name: "   "}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name: err = %v, want ErrNameRequired", err)
	}
}

func TestProductInput_Validate(t *testing.T) {
	valid := ProductInput{
		Name:       "Teak Chair",
		Price:      450_000,
		Quantity:   10,
		CategoryID: uuid.New(),
	}

	tests := []struct {
		name    string
		mutate  func(*ProductInput)
		wantErr error
	}{
		{"valid", func(in *ProductInput) {}, nil},
		{"zero price is allowed", func(in *ProductInput) { in.Price = 0 }, nil},
		{"zero quantity is allowed", func(in *ProductInput) { in.Quantity = 0 }, nil},
		{"blank name", func(in *ProductInput) { in.Name = " " }, ErrNameRequired},
		{"negative price", func(in *ProductInput) { in.Price = -1 }, ErrNegativePrice},
		{"negative quantity", func(in *ProductInput) { in.Quantity = -1 }, ErrNegativeQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductUpdate_Validate(t *testing.T) {
	name := "Teak Chair"
	blank := " "
	negPrice := int64(-1)
	negQty := -1

	if err := (&ProductUpdate{}).Validate(); err != nil {
		t.Errorf("empty update: %v", err)
	}
	if err := (&ProductUpdate{Name: &name}).Validate(); err != nil {
		t.Errorf("valid name: %v", err)
	}
	if err := (&ProductUpdate{Name: &blank}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name: err = %v, want ErrNameRequired", err)
	}
	if err := (&ProductUpdate{Price: &negPrice}).Validate(); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("negative price: err = %v, want ErrNegativePrice", err)
	}
	if err := (&ProductUpdate{Quantity: &negQty}).Validate(); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("negative quantity: err = %v, want ErrNegativeQuantity", err)
	}
}
