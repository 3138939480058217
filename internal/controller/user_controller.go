package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/service"
	"github.com/meytoof/MentorAI-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Grade    string `json:"grade"`
	Language string `json:"language"`
	EasyMode *bool  `json:"easyMode"`
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags User
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{
		Name:     req.Name,
		Grade:    req.Grade,
		Language: req.Language,
		EasyMode: req.EasyMode,
	})
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file required")
		return
	}
	if file.Size > util.MaxAvatarSize {
		util.BadRequest(ctx, "avatar too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "unsupported image type")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", claims.UserID, time.Now().Unix(), ext)
	url, err := c.StorageService.Provider.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.GetUserByID(claims.UserID)
	if err == nil {
		user.Avatar = url
		c.UserService.UserRepo.Update(user)
	}

	util.Success(ctx, gin.H{"url": url})
}

// Checkin godoc
// @Summary Register today's activity for the streak counter
// @Tags User
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Checkin}
// @Failure 401 {object} util.Response
// @Router /api/user/checkin [post]
func (c *UserController) Checkin(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	checkin, err := c.UserService.Checkin(claims.UserID)
	if err != nil && !errors.Is(err, service.ErrAlreadyCheckedIn) {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, checkin)
}

// ListUsers godoc
// @Summary List accounts (admin)
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.GetUsers(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
