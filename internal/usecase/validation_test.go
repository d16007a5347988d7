package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
)

func TestValidateCreateOrder(t *testing.T) {
	base := validInput(model.PaymentMethodOnline)

	cases := []struct {
		name   string
		mutate func(*model.CreateOrderInput)
		valid  bool
	}{
		{"valid online", func(*model.CreateOrderInput) {}, true},
		{"valid cash on delivery", func(in *model.CreateOrderInput) { in.PaymentMethod = model.PaymentMethodCOD }, true},
		{"no items", func(in *model.CreateOrderInput) { in.Items = nil }, false},
		{"missing product id", func(in *model.CreateOrderInput) { in.Items = []model.OrderItemInput{{Quantity: 1}} }, false},
		{"zero quantity", func(in *model.CreateOrderInput) { in.Items = []model.OrderItemInput{{ProductID: "p1"}} }, false},
		{"negative quantity", func(in *model.CreateOrderInput) { in.Items = []model.OrderItemInput{{ProductID: "p1", Quantity: -1}} }, false},
		{"duplicate product", func(in *model.CreateOrderInput) {
			in.Items = []model.OrderItemInput{{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}}
		}, false},
		{"unknown payment method", func(in *model.CreateOrderInput) { in.PaymentMethod = "check" }, false},
		{"missing address name", func(in *model.CreateOrderInput) { in.ShippingAddress.Name = "" }, false},
		{"missing city", func(in *model.CreateOrderInput) { in.ShippingAddress.City = "" }, false},
		{"missing postal code", func(in *model.CreateOrderInput) { in.ShippingAddress.PostalCode = "" }, false},
		{"missing country", func(in *model.CreateOrderInput) { in.ShippingAddress.Country = "" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.Items = append([]model.OrderItemInput(nil), base.Items...)
			tc.mutate(&in)

			err := validateCreateOrder(in)
			if tc.valid && err != nil {
				t.Fatalf("expected valid input, got %v", err)
			}
			if !tc.valid && !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
