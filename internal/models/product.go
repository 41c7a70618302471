package models

// ProductImage is the upload metadata embedded on a product.
type ProductImage struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	FileSize string `json:"file_size"` // human-formatted, e.g. "24.5 KB"
}

type Product struct {
	BaseModel
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string  `gorm:"not null" json:"name"`
	SKU         string  `gorm:"column:sku" json:"sku"`
	Category    string  `gorm:"not null" json:"category"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
	Price       float64 `gorm:"not null" json:"price"`
	Description string  `gorm:"type:text;not null" json:"description"`

	Image ProductImage `gorm:"embedded;embeddedPrefix:image_" json:"image"`
}
