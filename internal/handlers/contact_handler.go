package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/middleware"
	"invently_backend/internal/services"
	"invently_backend/internal/services/dto"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.POST("/contact-us", authRequired, h.ContactUs)
}

func (h *ContactHandler) ContactUs(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	if err := h.contactService.SendMessage(db, userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message sent successfully",
	})
}
