package services

import (
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invently_backend/internal/config"
	"invently_backend/internal/models"
	"invently_backend/internal/repositories"
	"invently_backend/internal/services/dto"
	"invently_backend/internal/storage"
	"invently_backend/pkg/apperrors"
)

type ProductService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateProductRequest) (*models.Product, error)
	List(db *gorm.DB, userID string) ([]models.Product, error)
	Get(db *gorm.DB, userID, productID string) (*models.Product, error)
	Update(ctx context.Context, db *gorm.DB, userID, productID string, req *dto.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, db *gorm.DB, userID, productID string) error
}

type ProductServiceImpl struct {
	productRepo repositories.ProductRepository
	files       storage.Storage
	cfg         *config.Config
}

func NewProductService(productRepo repositories.ProductRepository, files storage.Storage, cfg *config.Config) ProductService {
	return &ProductServiceImpl{
		productRepo: productRepo,
		files:       files,
		cfg:         cfg,
	}
}

func (s *ProductServiceImpl) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		UserID:      userID,
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Description: req.Description,
	}

	if req.Image != nil {
		image, err := s.saveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	if err := s.productRepo.Create(db, product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) List(db *gorm.DB, userID string) ([]models.Product, error) {
	products, err := s.productRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return products, nil
}

func (s *ProductServiceImpl) Get(db *gorm.DB, userID, productID string) (*models.Product, error) {
	product, err := s.findOwned(db, userID, productID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductServiceImpl) Update(ctx context.Context, db *gorm.DB, userID, productID string, req *dto.UpdateProductRequest) (*models.Product, error) {
	product, err := s.findOwned(db, userID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != "" {
		product.Description = req.Description
	}

	if req.Image != nil {
		image, err := s.saveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	if err := s.productRepo.Update(db, product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Delete(ctx context.Context, db *gorm.DB, userID, productID string) error {
	product, err := s.findOwned(db, userID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(db, productID); err != nil {
		return apperrors.InternalError(err)
	}

	// Image cleanup is best effort; the record is already gone.
	if product.Image.FilePath != "" {
		_ = s.files.Delete(ctx, storagePathFromURL(product.Image.FilePath))
	}
	return nil
}

// findOwned loads a product and enforces ownership. A product that
// exists but belongs to someone else comes back as a 403.
func (s *ProductServiceImpl) findOwned(db *gorm.DB, userID, productID string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(db, productID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if product.UserID != userID {
		return nil, apperrors.NewForbiddenError("User not authorized")
	}
	return product, nil
}

func (s *ProductServiceImpl) saveImage(ctx context.Context, header *multipart.FileHeader) (models.ProductImage, error) {
	var image models.ProductImage

	if header.Size > s.cfg.Upload.MaxSize {
		return image, apperrors.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !s.typeAllowed(contentType) {
		return image, apperrors.ErrInvalidFileType
	}

	file, err := header.Open()
	if err != nil {
		return image, apperrors.InternalError(err)
	}
	defer file.Close()

	path := fmt.Sprintf("products/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	if err := s.files.Save(ctx, path, file, contentType); err != nil {
		return image, apperrors.InternalError(err)
	}

	url, err := s.files.GetURL(ctx, path)
	if err != nil {
		return image, apperrors.InternalError(err)
	}

	return models.ProductImage{
		FileName: header.Filename,
		FilePath: url,
		FileType: contentType,
		FileSize: FormatFileSize(header.Size, 2),
	}, nil
}

func (s *ProductServiceImpl) typeAllowed(contentType string) bool {
	for _, t := range s.cfg.Upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// storagePathFromURL strips the public URL base back off a stored
// file path so it can be handed to the storage layer.
func storagePathFromURL(url string) string {
	if idx := strings.Index(url, "products/"); idx >= 0 {
		return url[idx:]
	}
	return url
}

// FormatFileSize renders a byte count the way the API has always
// shown it, e.g. "24.5 KB".
func FormatFileSize(bytes int64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1000)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := float64(bytes) / math.Pow(1000, float64(i))
	return fmt.Sprintf("%.*f %s", decimals, value, sizes[i])
}
