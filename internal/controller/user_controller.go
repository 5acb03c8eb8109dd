package controller

import (
	"fmt"
	"io"
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserController 处理个人资料与位置相关的HTTP请求
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

// UpdateLocationRequest 位置上报请求，location为空表示下线
type UpdateLocationRequest struct {
	Location string `json:"location"`
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body service.ProfilePatch true "资料更新"
// @Success 200 {object} util.Response "成功"
// @Router /api/user/profile [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.UserService.UpdateProfile(claims.UserID, patch); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传图片并返回稳定URL
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "头像文件"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "文件无效"
// @Router /api/user/avatar/upload [post]
func (ctrl *UserController) UploadAvatar(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "缺少头像文件")
		return
	}
	if fileHeader.Size > util.MaxAvatarSize {
		util.BadRequest(c, "头像不能超过5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()

	// 按内容嗅探校验，不信任客户端声明的Content-Type
	contentType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(c, "仅支持图片文件")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(c, err)
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	filename := fmt.Sprintf("avatars/%d/%s%s", claims.UserID, uuid.New().String(), ext)

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := ctrl.StorageService.Upload(ctx, filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	if err := ctrl.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"url": url})
}

// UpdateLocation godoc
// @Summary 上报当前位置
// @Description 位置超过有效窗口后自动视为离线，无需显式下线
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body UpdateLocationRequest true "位置上报"
// @Success 200 {object} util.Response "成功"
// @Router /api/user/location [put]
func (ctrl *UserController) UpdateLocation(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.UserService.UpdateLocation(claims.UserID, req.Location); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// GetFriendLocations godoc
// @Summary 好友位置地图
// @Description 向我公开且位置仍新鲜的好友列表
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.FriendLocation} "成功"
// @Router /api/user/friend-locations [get]
func (ctrl *UserController) GetFriendLocations(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	locations, err := ctrl.UserService.GetFriendLocations(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, locations)
}
