package handler

import (
	"github.com/gin-gonic/gin"

	"marketplace/src/app/http/dto"
	"marketplace/src/app/http/response"
	"marketplace/src/app/middleware"
	"marketplace/src/core/ports"
	"marketplace/src/core/usecase"
)

// ClassifiedAdHandler handles the classified ad command and query endpoints.
type ClassifiedAdHandler struct {
	adService *usecase.ClassifiedAdService
}

func NewClassifiedAdHandler(adService *usecase.ClassifiedAdService) *ClassifiedAdHandler {
	return &ClassifiedAdHandler{adService: adService}
}

// Create handles POST /v1/ads.
func (h *ClassifiedAdHandler) Create(c *gin.Context) {
	var req dto.CreateClassifiedAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	view, err := h.adService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, view)
}

// SetTitle handles PUT /v1/ads/:id/title.
func (h *ClassifiedAdHandler) SetTitle(c *gin.Context) {
	var req dto.SetTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	h.respond(c)(h.adService.SetTitle(c.Request.Context(), req.ToInput(c.Param("id"))))
}

// UpdateText handles PUT /v1/ads/:id/text.
func (h *ClassifiedAdHandler) UpdateText(c *gin.Context) {
	var req dto.UpdateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	h.respond(c)(h.adService.UpdateText(c.Request.Context(), req.ToInput(c.Param("id"))))
}

// UpdatePrice handles PUT /v1/ads/:id/price.
func (h *ClassifiedAdHandler) UpdatePrice(c *gin.Context) {
	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	h.respond(c)(h.adService.UpdatePrice(c.Request.Context(), req.ToInput(c.Param("id"))))
}

// RequestToPublish handles PUT /v1/ads/:id/publish.
func (h *ClassifiedAdHandler) RequestToPublish(c *gin.Context) {
	h.respond(c)(h.adService.RequestToPublish(c.Request.Context(), c.Param("id")))
}

// Get handles GET /v1/ads/:id.
func (h *ClassifiedAdHandler) Get(c *gin.Context) {
	h.respond(c)(h.adService.Get(c.Request.Context(), c.Param("id")))
}

func (h *ClassifiedAdHandler) respond(c *gin.Context) func(*ports.ClassifiedAdView, error) {
	return func(view *ports.ClassifiedAdView, err error) {
		if err != nil {
			fail(c, err)
			return
		}
		response.OK(c, view)
	}
}

// fail attaches err for the access log and writes the mapped error response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.FromDomainError(c, err, middleware.GetRequestID(c))
}
