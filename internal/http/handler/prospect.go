package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pandey.app/outreach/common/id"
	"pandey.app/outreach/internal/http/dto"
	"pandey.app/outreach/internal/http/middleware"
	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/service"
)

type ProspectHandler struct {
	prospectService service.ProspectService
}

func NewProspectHandler(prospectService service.ProspectService) *ProspectHandler {
	return &ProspectHandler{prospectService: prospectService}
}

func (h *ProspectHandler) List(c *gin.Context) {
	prospects, err := h.prospectService.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "list prospects")
		return
	}

	c.JSON(http.StatusOK, dto.ProspectListResponse{Prospects: dto.ToProspectResponses(prospects)})
}

func (h *ProspectHandler) Create(c *gin.Context) {
	var req dto.ProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	p, err := h.prospectService.Create(c.Request.Context(), middleware.GetUserID(c), req.ToModel())
	if err != nil {
		respondError(c, err, "create prospect")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProspectResponse(p))
}

// Sync replaces the caller's prospect list with the one in the body.
func (h *ProspectHandler) Sync(c *gin.Context) {
	var req dto.SyncProspectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	prospects, err := h.prospectService.Sync(c.Request.Context(), middleware.GetUserID(c), req.ToModel())
	if err != nil {
		respondError(c, err, "sync prospects")
		return
	}

	c.JSON(http.StatusOK, dto.ProspectListResponse{Prospects: dto.ToProspectResponses(prospects)})
}

func (h *ProspectHandler) Get(c *gin.Context) {
	prospectID, ok := prospectIDParam(c)
	if !ok {
		return
	}

	p, err := h.prospectService.Get(c.Request.Context(), middleware.GetUserID(c), prospectID)
	if err != nil {
		respondError(c, err, "get prospect")
		return
	}

	c.JSON(http.StatusOK, dto.ToProspectResponse(p))
}

func (h *ProspectHandler) Update(c *gin.Context) {
	prospectID, ok := prospectIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	p, err := h.prospectService.Update(c.Request.Context(), middleware.GetUserID(c), prospectID, service.ProspectUpdate{
		Prospect:   req.ToModel(),
		Status:     model.ProspectStatus(req.Status),
		FollowUpAt: req.FollowUpAt,
	})
	if err != nil {
		respondError(c, err, "update prospect")
		return
	}

	c.JSON(http.StatusOK, dto.ToProspectResponse(p))
}

func (h *ProspectHandler) Delete(c *gin.Context) {
	prospectID, ok := prospectIDParam(c)
	if !ok {
		return
	}

	if err := h.prospectService.Delete(c.Request.Context(), middleware.GetUserID(c), prospectID); err != nil {
		respondError(c, err, "delete prospect")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProspectHandler) GenerateStrategy(c *gin.Context) {
	prospectID, ok := prospectIDParam(c)
	if !ok {
		return
	}

	p, result, err := h.prospectService.GenerateStrategy(c.Request.Context(), middleware.GetUserID(c), prospectID)
	if err != nil {
		respondError(c, err, "generate strategy")
		return
	}

	c.JSON(http.StatusOK, dto.ProspectStrategyResponse{
		Prospect:         dto.ToProspectResponse(p),
		StrategyResponse: dto.ToStrategyResponse(result),
	})
}

func prospectIDParam(c *gin.Context) (int64, bool) {
	prospectID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prospect id"})
		return 0, false
	}
	return prospectID, true
}
