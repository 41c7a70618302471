package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/middleware"
	"invently_backend/internal/services"
	"invently_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authRequired)
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateProfile)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	user, err := h.userService.GetUser(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	user, err := h.userService.UpdateProfile(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
