// internal/app/features/catalog/types.go
package catalog

import (
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/domain/models"
)

// supplierOut is one directory entry: the supplier's public profile, their
// products and their rating summary.
type supplierOut struct {
	ID           string              `json:"id"`
	FullName     string              `json:"full_name"`
	BusinessName string              `json:"business_name,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	Area         string              `json:"area,omitempty"`
	Category     string              `json:"category,omitempty"`
	Products     []models.Product    `json:"products"`
	Rating       reviewstore.Summary `json:"rating"`
}

func supplierOf(u models.User, products []models.Product, rating reviewstore.Summary) supplierOut {
	if products == nil {
		products = []models.Product{}
	}
	return supplierOut{
		ID:           u.ID.Hex(),
		FullName:     u.FullName,
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
		Area:         u.Area,
		Category:     u.Category,
		Products:     products,
		Rating:       rating,
	}
}

type suppliersOut struct {
	Suppliers []supplierOut `json:"suppliers"`
}

type productsOut struct {
	Products []models.Product `json:"products"`
}
