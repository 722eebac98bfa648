package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lucidly/internal/models/request_models"
	"lucidly/internal/services"
	"lucidly/pkg/utils"
)

type DreamController struct {
	dreamService services.DreamServiceInterface
}

func NewDreamController(dreamService services.DreamServiceInterface) *DreamController {
	return &DreamController{
		dreamService: dreamService,
	}
}

// CreateDream godoc
// @Summary Record a dream
// @Tags Dreams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateDreamRequest true "Dream"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/dreams [post]
func (d *DreamController) CreateDream(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req request_models.CreateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := d.dreamService.CreateDream(c.Request.Context(), account.ID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Dream created")
}

// ListDreams godoc
// @Summary List own dreams, newest first
// @Tags Dreams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/dreams [get]
func (d *DreamController) ListDreams(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	resp, err := d.dreamService.ListDreams(c.Request.Context(), account.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "OK")
}

func (d *DreamController) GetDream(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	resp, err := d.dreamService.GetDream(c.Request.Context(), account.ID, c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "OK")
}

func (d *DreamController) UpdateDream(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req request_models.UpdateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := d.dreamService.UpdateDream(c.Request.Context(), account.ID, c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Dream updated")
}

func (d *DreamController) DeleteDream(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	if err := d.dreamService.DeleteDream(c.Request.Context(), account.ID, c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Dream deleted")
}

// Gallery godoc
// @Summary Public enriched dreams
// @Description Newest first. limit defaults to 20 and is capped at 100.
// @Tags Gallery
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/gallery/dreams [get]
func (d *DreamController) Gallery(c *gin.Context) {
	var q request_models.GalleryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}

	resp, err := d.dreamService.Gallery(c.Request.Context(), q.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "OK")
}
