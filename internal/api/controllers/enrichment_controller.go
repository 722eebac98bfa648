package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/internal/services"
	"lucidly/pkg/utils"
)

type EnrichmentController struct {
	enrichmentService services.EnrichmentServiceInterface
}

func NewEnrichmentController(enrichmentService services.EnrichmentServiceInterface) *EnrichmentController {
	return &EnrichmentController{
		enrichmentService: enrichmentService,
	}
}

// GenerateImage godoc
// @Summary Generate an image for a dream
// @Description Costs one image token unless the account is premium. Makes the dream public.
// @Tags Enrichment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dream id"
// @Param request body request_models.GenerateImageRequest false "Style"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/dreams/{id}/generate-image [post]
func (e *EnrichmentController) GenerateImage(c *gin.Context) {
	var req request_models.GenerateImageRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	e.enrich(c, db_models.KindImage, services.EnrichmentOptions{Style: req.Style})
}

// GenerateVideo godoc
// @Summary Generate a video for a dream
// @Tags Enrichment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dream id"
// @Param request body request_models.GenerateVideoRequest false "Style and duration in seconds (1-30)"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Router /api/dreams/{id}/generate-video [post]
func (e *EnrichmentController) GenerateVideo(c *gin.Context) {
	var req request_models.GenerateVideoRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	e.enrich(c, db_models.KindVideo, services.EnrichmentOptions{Style: req.Style, Duration: req.Duration})
}

// Interpret godoc
// @Summary Ask Lucy to interpret a dream
// @Tags Enrichment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dream id"
// @Param request body request_models.InterpretationRequest false "Optional question"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Router /api/dreams/{id}/lucy-interpretation [post]
func (e *EnrichmentController) Interpret(c *gin.Context) {
	var req request_models.InterpretationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	e.enrich(c, db_models.KindInterpretation, services.EnrichmentOptions{Question: req.Question})
}

func (e *EnrichmentController) enrich(c *gin.Context, kind db_models.EnrichmentKind, opts services.EnrichmentOptions) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	resp, err := e.enrichmentService.Enrich(c.Request.Context(), account, c.Param("id"), kind, opts)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Dream enriched")
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
	return false
}
