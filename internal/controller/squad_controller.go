package controller

import (
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SquadController 处理饭团相关的HTTP请求
type SquadController struct {
	SquadService *service.SquadService
}

func NewSquadController(squadService *service.SquadService) *SquadController {
	return &SquadController{SquadService: squadService}
}

// CreateSquadRequest 建团请求
type CreateSquadRequest struct {
	Name      string `json:"name" binding:"required" example:"周五干饭小队"`
	MemberIDs []uint `json:"memberIds" binding:"required"`
}

// SquadMemberRequest 加人/踢人请求
type SquadMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// TransferOwnershipRequest 转让请求
type TransferOwnershipRequest struct {
	NewCreatorID uint `json:"newCreatorId" binding:"required"`
}

// Create godoc
// @Summary 创建饭团
// @Description 创建者自动入团，除创建者外至少一名成员
// @Tags 饭团
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body CreateSquadRequest true "建团请求"
// @Success 201 {object} util.Response{data=model.Squad} "成功"
// @Failure 409 {object} util.Response "名称已被占用"
// @Router /api/squads [post]
func (ctrl *SquadController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreateSquadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	squad, err := ctrl.SquadService.Create(claims.UserID, req.Name, req.MemberIDs)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, squad)
}

// Get godoc
// @Summary 饭团详情
// @Description 仅成员可见
// @Tags 饭团
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Success 200 {object} util.Response{data=model.Squad} "成功"
// @Failure 403 {object} util.Response "非成员"
// @Router /api/squads/{id} [get]
func (ctrl *SquadController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}

	squad, err := ctrl.SquadService.Get(claims.UserID, uint(squadID))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, squad)
}

// ListMine godoc
// @Summary 我所在的饭团
// @Tags 饭团
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Squad} "成功"
// @Router /api/squads [get]
func (ctrl *SquadController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squads, err := ctrl.SquadService.ListMine(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, squads)
}

// AddMember godoc
// @Summary 拉人入团
// @Description 任何现有成员都可以拉人
// @Tags 饭团
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Param   request body SquadMemberRequest true "新成员"
// @Success 200 {object} util.Response "成功"
// @Failure 409 {object} util.Response "已经是成员"
// @Router /api/squads/{id}/members [post]
func (ctrl *SquadController) AddMember(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}

	var req SquadMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.SquadService.AddMember(claims.UserID, uint(squadID), req.UserID); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// RemoveMember godoc
// @Summary 退团或踢人
// @Description 普通成员只能踢自己（即退团）；创建者可踢任何成员；创建者作为最后一人退团时饭团解散
// @Tags 饭团
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Param   userId path int true "被移除的成员ID"
// @Success 200 {object} util.Response "成功"
// @Failure 422 {object} util.Response "创建者需先转让"
// @Router /api/squads/{id}/members/{userId} [delete]
func (ctrl *SquadController) RemoveMember(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}
	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		util.BadRequest(c, "无效的成员ID")
		return
	}

	if err := ctrl.SquadService.RemoveMember(claims.UserID, uint(squadID), uint(targetID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// UpdateMetadata godoc
// @Summary 更新饭团信息
// @Description 仅创建者可改名称和头像
// @Tags 饭团
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Param   request body service.SquadPatch true "更新字段"
// @Success 200 {object} util.Response "成功"
// @Router /api/squads/{id} [put]
func (ctrl *SquadController) UpdateMetadata(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}

	var patch service.SquadPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.SquadService.UpdateMetadata(claims.UserID, uint(squadID), patch); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// TransferOwnership godoc
// @Summary 转让饭团
// @Description 创建者把饭团转让给另一名成员
// @Tags 饭团
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Param   request body TransferOwnershipRequest true "新创建者"
// @Success 200 {object} util.Response "成功"
// @Router /api/squads/{id}/transfer [post]
func (ctrl *SquadController) TransferOwnership(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.SquadService.TransferOwnership(claims.UserID, uint(squadID), req.NewCreatorID); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// Delete godoc
// @Summary 解散饭团
// @Description 仅创建者可解散，解散后名称可复用
// @Tags 饭团
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭团ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/squads/{id} [delete]
func (ctrl *SquadController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	squadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭团ID")
		return
	}

	if err := ctrl.SquadService.Delete(claims.UserID, uint(squadID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}
