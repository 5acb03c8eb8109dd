package controller

import (
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FriendController 处理好友关系相关的HTTP请求
type FriendController struct {
	FriendshipService *service.FriendshipService
}

func NewFriendController(friendshipService *service.FriendshipService) *FriendController {
	return &FriendController{FriendshipService: friendshipService}
}

// SendFriendRequestRequest 发送好友申请请求
type SendFriendRequestRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required" example:"2"`
	Message    string `json:"message" example:"我是王小明"`
}

// HandleFriendRequestRequest 处理好友申请请求
type HandleFriendRequestRequest struct {
	SenderID uint `json:"senderId" binding:"required" example:"2"`
}

// SetLocationVisibilityRequest 位置可见性设置
type SetLocationVisibilityRequest struct {
	FriendID uint  `json:"friendId" binding:"required"`
	Visible  *bool `json:"visible" binding:"required"`
}

// Search godoc
// @Summary 搜索用户
// @Description 按邮箱/昵称模糊搜索，返回公开信息；无匹配返回空列表
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   q query string true "搜索关键词"
// @Success 200 {object} util.Response{data=[]model.PublicUser} "成功"
// @Router /api/friends/search [get]
func (ctrl *FriendController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		util.BadRequest(c, "缺少搜索关键词")
		return
	}

	users, err := ctrl.FriendshipService.SearchByContact(query)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, users)
}

// SendRequest godoc
// @Summary 发送好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body SendFriendRequestRequest true "好友申请"
// @Success 200 {object} util.Response "成功"
// @Failure 409 {object} util.Response "重复申请或已是好友"
// @Router /api/friends/requests [post]
func (ctrl *FriendController) SendRequest(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.FriendshipService.SendRequest(claims.UserID, req.ReceiverID, req.Message); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// AcceptRequest godoc
// @Summary 同意好友申请
// @Description 双向好友边在一个事务内成对建立
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body HandleFriendRequestRequest true "申请来源"
// @Success 200 {object} util.Response "成功"
// @Failure 422 {object} util.Response "申请不存在或已处理"
// @Router /api/friends/requests/accept [post]
func (ctrl *FriendController) AcceptRequest(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.FriendshipService.AcceptRequest(claims.UserID, req.SenderID); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// DeclineRequest godoc
// @Summary 拒绝好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body HandleFriendRequestRequest true "申请来源"
// @Success 200 {object} util.Response "成功"
// @Router /api/friends/requests/decline [post]
func (ctrl *FriendController) DeclineRequest(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.FriendshipService.DeclineRequest(claims.UserID, req.SenderID); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// ListFriends godoc
// @Summary 好友列表
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   q query string false "按昵称/邮箱过滤"
// @Success 200 {object} util.Response{data=[]model.PublicUser} "成功"
// @Router /api/friends [get]
func (ctrl *FriendController) ListFriends(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	friends, err := ctrl.FriendshipService.GetFriends(claims.UserID, c.Query("q"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, friends)
}

// ListPendingRequests godoc
// @Summary 待处理的好友申请
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.FriendRequest} "成功"
// @Router /api/friends/requests [get]
func (ctrl *FriendController) ListPendingRequests(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	reqs, err := ctrl.FriendshipService.GetPendingRequests(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, reqs)
}

// RemoveFriend godoc
// @Summary 删除好友
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   friendId path int true "好友ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/friends/{friendId} [delete]
func (ctrl *FriendController) RemoveFriend(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	friendID, err := strconv.Atoi(c.Param("friendId"))
	if err != nil {
		util.BadRequest(c, "无效的好友ID")
		return
	}

	if err := ctrl.FriendshipService.RemoveFriend(claims.UserID, uint(friendID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// SetLocationVisibility godoc
// @Summary 设置位置对某好友是否可见
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body SetLocationVisibilityRequest true "可见性设置"
// @Success 200 {object} util.Response "成功"
// @Router /api/friends/location-visibility [put]
func (ctrl *FriendController) SetLocationVisibility(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req SetLocationVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.FriendshipService.SetLocationVisibility(claims.UserID, req.FriendID, *req.Visible); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}
