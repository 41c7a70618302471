package dto

import "mime/multipart"

// CreateProductRequest arrives as a multipart form so the image can
// ride along with the fields.
type CreateProductRequest struct {
	Name        string  `form:"name" binding:"required"`
	SKU         string  `form:"sku"`
	Category    string  `form:"category" binding:"required"`
	Quantity    int64   `form:"quantity" binding:"required"`
	Price       float64 `form:"price" binding:"required"`
	Description string  `form:"description" binding:"required"`

	Image *multipart.FileHeader `form:"image"`
}

type UpdateProductRequest struct {
	Name        string   `form:"name"`
	Category    string   `form:"category"`
	Quantity    *int64   `form:"quantity"`
	Price       *float64 `form:"price"`
	Description string   `form:"description"`

	Image *multipart.FileHeader `form:"image"`
}
