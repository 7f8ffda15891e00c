package handler

import (
	"github.com/gin-gonic/gin"

	"marketplace/src/app/http/dto"
	"marketplace/src/app/http/response"
	"marketplace/src/app/middleware"
	"marketplace/src/core/usecase"
)

// UserProfileHandler handles user profile endpoints.
type UserProfileHandler struct {
	userService *usecase.UserProfileService
}

func NewUserProfileHandler(userService *usecase.UserProfileService) *UserProfileHandler {
	return &UserProfileHandler{userService: userService}
}

func (h *UserProfileHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	view, err := h.userService.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, view)
}

func (h *UserProfileHandler) UpdateFullName(c *gin.Context) {
	var req dto.UpdateFullNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	view, err := h.userService.UpdateFullName(c.Request.Context(), c.Param("id"), req.FullName)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, view)
}

func (h *UserProfileHandler) UpdateDisplayName(c *gin.Context) {
	var req dto.UpdateDisplayNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	view, err := h.userService.UpdateDisplayName(c.Request.Context(), c.Param("id"), req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, view)
}

func (h *UserProfileHandler) Get(c *gin.Context) {
	view, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, view)
}
