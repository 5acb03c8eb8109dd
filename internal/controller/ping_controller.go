package controller

import (
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PingController 处理约饭广播相关的HTTP请求
type PingController struct {
	PingService *service.PingService
}

func NewPingController(pingService *service.PingService) *PingController {
	return &PingController{PingService: pingService}
}

// CreatePingRequest 发起广播请求
type CreatePingRequest struct {
	Message      string     `json:"message" example:"一起吃饭吗？"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	RecipientIDs []uint     `json:"recipientIds"`
	SquadIDs     []uint     `json:"squadIds"`
}

// PingResponseRequest 响应广播请求
type PingResponseRequest struct {
	Response string `json:"response" binding:"required" example:"accept"`
}

// Create godoc
// @Summary 发起约饭广播
// @Description 直接接收人与饭团成员并集展开；消息与有效期缺省时用默认值
// @Tags 广播
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body CreatePingRequest true "广播内容"
// @Success 201 {object} util.Response{data=model.Ping} "成功"
// @Failure 400 {object} util.Response "没有有效接收人"
// @Router /api/pings [post]
func (ctrl *PingController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreatePingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	ping, err := ctrl.PingService.CreatePing(claims.UserID, service.CreatePingSpec{
		Message:      req.Message,
		ExpiresAt:    req.ExpiresAt,
		RecipientIDs: req.RecipientIDs,
		SquadIDs:     req.SquadIDs,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, ping)
}

// ListActive godoc
// @Summary 对我可见的活跃广播
// @Description 未失效且我尚未响应过的广播，过期在读取时判断
// @Tags 广播
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Ping} "成功"
// @Router /api/pings [get]
func (ctrl *PingController) ListActive(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	pings, err := ctrl.PingService.ListActive(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, pings)
}

// Respond godoc
// @Summary 响应广播
// @Description accept 或 decline，单人单次，不可更改
// @Tags 广播
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "广播ID"
// @Param   request body PingResponseRequest true "响应"
// @Success 200 {object} util.Response "成功"
// @Failure 409 {object} util.Response "已响应过"
// @Router /api/pings/{id}/respond [post]
func (ctrl *PingController) Respond(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	pingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的广播ID")
		return
	}

	var req PingResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.PingService.Respond(claims.UserID, uint(pingID), req.Response); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// Dismiss godoc
// @Summary 忽略广播
// @Description 忽略后不再出现在活跃列表
// @Tags 广播
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "广播ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/pings/{id}/dismiss [post]
func (ctrl *PingController) Dismiss(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	pingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的广播ID")
		return
	}

	if err := ctrl.PingService.Dismiss(claims.UserID, uint(pingID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// Cancel godoc
// @Summary 取消广播
// @Description 仅发起人可取消
// @Tags 广播
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "广播ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/pings/{id} [delete]
func (ctrl *PingController) Cancel(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	pingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的广播ID")
		return
	}

	if err := ctrl.PingService.Cancel(claims.UserID, uint(pingID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}
