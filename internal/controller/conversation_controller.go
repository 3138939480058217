package controller

import (
	"strconv"

	"github.com/meytoof/MentorAI-sub000/internal/repository"
	"github.com/meytoof/MentorAI-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// ConversationController exposes the tutoring log to the admin console.
type ConversationController struct {
	Repo *repository.ConversationRepository
}

func NewConversationController(repo *repository.ConversationRepository) *ConversationController {
	return &ConversationController{Repo: repo}
}

// ListConversations godoc
// @Summary Page through the tutoring log (admin)
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response
// @Router /api/admin/conversations [get]
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	convs, total, err := c.Repo.ListAll(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  convs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
