package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/meytoof/MentorAI-sub000/internal/service"
	"github.com/meytoof/MentorAI-sub000/internal/util"
	"github.com/meytoof/MentorAI-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TutorController struct {
	tutorService *service.TutorService
}

func NewTutorController(tutorService *service.TutorService) *TutorController {
	return &TutorController{tutorService: tutorService}
}

// AskRequest is the client payload for one tutoring question.
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	// Image is an optional data URL (base64) of a photo of the exercise.
	Image string `json:"image"`
}

// Ask godoc
// @Summary Ask the tutor a homework question
// @Description Runs the tutoring pipeline and returns guidance bubbles; never reveals the final answer
// @Tags Tutor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body AskRequest true "Question and optional exercise photo"
// @Success 200 {object} util.Response{data=model.AssistantResponse}
// @Failure 400 {object} util.Response "Missing or empty question"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 500 {object} util.Response "Upstream model not configured"
// @Router /api/tutor/ask [post]
func (c *TutorController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		util.BadRequest(ctx, "question must not be empty")
		return
	}
	if len(req.Image) > util.MaxImageDataBytes {
		util.BadRequest(ctx, "image too large")
		return
	}

	resp, err := c.tutorService.Ask(ctx.Request.Context(), claims.UserID, req.Question, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyQuestion):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAINotConfigured):
			// deployment defect: loud for operators, opaque for the client
			logger.Log.Error("tutor ask rejected", zap.Error(err))
			util.InternalServerError(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// History godoc
// @Summary Recent tutoring exchanges of the current user
// @Tags Tutor
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Max entries (default 20, cap 50)"
// @Success 200 {object} util.Response{data=[]model.Conversation}
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/tutor/history [get]
func (c *TutorController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	convs, err := c.tutorService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, convs)
}
