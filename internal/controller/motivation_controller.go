package controller

import (
	"strconv"

	"github.com/meytoof/MentorAI-sub000/internal/service"
	"github.com/meytoof/MentorAI-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type MotivationController struct {
	MotivationService *service.MotivationService
}

func NewMotivationController(motivationService *service.MotivationService) *MotivationController {
	return &MotivationController{MotivationService: motivationService}
}

// GetCurrentMotivation godoc
// @Summary Current encouragement phrase for the landing screen
// @Tags Motivation
// @Produce json
// @Success 200 {object} util.Response{data=model.Motivation}
// @Router /api/motivation [get]
func (c *MotivationController) GetCurrentMotivation(ctx *gin.Context) {
	m, err := c.MotivationService.Current()
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, m)
}

// ListMotivations godoc
// @Summary List all encouragement phrases (admin)
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Motivation}
// @Router /api/admin/motivations [get]
func (c *MotivationController) ListMotivations(ctx *gin.Context) {
	ms, err := c.MotivationService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ms)
}

// SetCurrentMotivation godoc
// @Summary Rotate the active encouragement phrase (admin)
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Motivation id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/motivation/{id} [put]
func (c *MotivationController) SetCurrentMotivation(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid motivation id")
		return
	}

	if err := c.MotivationService.SetCurrent(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
