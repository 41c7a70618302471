package repositories

import (
	"errors"

	"gorm.io/gorm"

	"invently_backend/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(db *gorm.DB, product *models.Product) error
	FindByID(db *gorm.DB, id string) (*models.Product, error)
	FindByUserID(db *gorm.DB, userID string) ([]models.Product, error)
	Update(db *gorm.DB, product *models.Product) error
	Delete(db *gorm.DB, id string) error
}

type ProductRepositoryImpl struct{}

func NewProductRepository() ProductRepository {
	return &ProductRepositoryImpl{}
}

func (r *ProductRepositoryImpl) Create(db *gorm.DB, product *models.Product) error {
	return db.Create(product).Error
}

func (r *ProductRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	err := db.First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) FindByUserID(db *gorm.DB, userID string) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *ProductRepositoryImpl) Update(db *gorm.DB, product *models.Product) error {
	result := db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":            product.Name,
		"category":        product.Category,
		"quantity":        product.Quantity,
		"price":           product.Price,
		"description":     product.Description,
		"image_file_name": product.Image.FileName,
		"image_file_path": product.Image.FilePath,
		"image_file_type": product.Image.FileType,
		"image_file_size": product.Image.FileSize,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
