// internal/app/features/reviews/types.go
package reviews

import (
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/domain/models"
)

// reviewInput is the body of POST /api/reviews. The vendor is the caller.
type reviewInput struct {
	OrderID    string `json:"order_id" validate:"required,objectid" label:"Order id"`
	SupplierID string `json:"supplier_id" validate:"required,objectid" label:"Supplier id"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5" label:"Rating"`
	Comment    string `json:"comment" validate:"max=1000" label:"Comment"`
}

type reviewOut struct {
	models.Review
	VendorName string `json:"vendor_name,omitempty"`
}

type createOut struct {
	Message string        `json:"message"`
	Review  models.Review `json:"review"`
}

type supplierReviewsOut struct {
	SupplierID string              `json:"supplier_id"`
	Rating     reviewstore.Summary `json:"rating"`
	Reviews    []reviewOut         `json:"reviews"`
}
