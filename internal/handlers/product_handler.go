package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/middleware"
	"invently_backend/internal/services"
	"invently_backend/internal/services/dto"
)

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
}

func NewProductHandler(base *BaseHandler, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	products := rg.Group("/products")
	products.Use(authRequired)
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:productId", h.Get)
		products.PATCH("/:productId", h.Update)
		products.DELETE("/:productId", h.Delete)
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	product, err := h.productService.Create(c.Request.Context(), db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	products, err := h.productService.List(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	product, err := h.productService.Get(db, userID, c.Param("productId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	product, err := h.productService.Update(c.Request.Context(), db, userID, c.Param("productId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	if err := h.productService.Delete(c.Request.Context(), db, userID, c.Param("productId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
