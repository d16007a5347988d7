package usecase

import (
	"fmt"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
)

func validateCreateOrder(in model.CreateOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}

	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item without product id", domainErrors.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: non-positive quantity for product %s", domainErrors.ErrValidation, item.ProductID)
		}
		if seen[item.ProductID] {
			return fmt.Errorf("%w: duplicate product %s", domainErrors.ErrValidation, item.ProductID)
		}
		seen[item.ProductID] = true
	}

	switch in.PaymentMethod {
	case model.PaymentMethodOnline, model.PaymentMethodCOD:
	default:
		return fmt.Errorf("%w: unknown payment method %q", domainErrors.ErrValidation, in.PaymentMethod)
	}

	addr := in.ShippingAddress
	if addr.Name == "" || addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return fmt.Errorf("%w: incomplete shipping address", domainErrors.ErrValidation)
	}

	return nil
}
