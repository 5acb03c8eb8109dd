package controller

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MealController 处理饭局相关的HTTP请求
type MealController struct {
	MealService *service.MealService
}

func NewMealController(mealService *service.MealService) *MealController {
	return &MealController{MealService: mealService}
}

// CreateMealRequest 创建饭局请求
type CreateMealRequest struct {
	Name           string `json:"name" binding:"required" example:"老王家火锅局"`
	Date           string `json:"date" binding:"required" example:"2026-09-01"`
	TimeSlot       string `json:"timeSlot" binding:"required" example:"dinner_early"`
	Location       string `json:"location" example:"海底捞中关村店"`
	IsOpenToJoin   bool   `json:"isOpenToJoin"`
	ParticipantIDs []uint `json:"participantIds"`
	SquadIDs       []uint `json:"squadIds"`
}

// ParticipantStatusRequest 参与者回应邀请
type ParticipantStatusRequest struct {
	Status string `json:"status" binding:"required" example:"confirmed"`
}

// SquadInviteResponseRequest 以饭团身份回应整团邀请
type SquadInviteResponseRequest struct {
	SquadID uint   `json:"squadId" binding:"required"`
	Status  string `json:"status" binding:"required" example:"confirmed"`
}

// Create godoc
// @Summary 创建饭局
// @Description 受邀饭团在创建时展开为参与者；同日同餐别冲突则整体拒绝
// @Tags 饭局
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body CreateMealRequest true "饭局信息"
// @Success 201 {object} util.Response{data=model.Meal} "成功"
// @Failure 409 {object} util.Response "日程冲突"
// @Router /api/meals [post]
func (ctrl *MealController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	meal, err := ctrl.MealService.CreateMeal(claims.UserID, service.CreateMealSpec{
		Name:           req.Name,
		Date:           req.Date,
		TimeSlot:       model.TimeSlot(req.TimeSlot),
		Location:       req.Location,
		IsOpenToJoin:   req.IsOpenToJoin,
		ParticipantIDs: req.ParticipantIDs,
		SquadIDs:       req.SquadIDs,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, meal)
}

// Get godoc
// @Summary 饭局详情
// @Tags 饭局
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭局ID"
// @Success 200 {object} util.Response{data=model.Meal} "成功"
// @Router /api/meals/{id} [get]
func (ctrl *MealController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭局ID")
		return
	}

	meal, err := ctrl.MealService.Get(uint(mealID))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, meal)
}

// ListMine godoc
// @Summary 我发起或参与的饭局
// @Tags 饭局
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Meal} "成功"
// @Router /api/meals [get]
func (ctrl *MealController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	meals, err := ctrl.MealService.ListMine(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, meals)
}

// GetOpenMeals godoc
// @Summary 附近的开放饭局
// @Description 好友发起的开放饭局，未来七天内，排除自己已参与的
// @Tags 饭局
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Meal} "成功"
// @Router /api/meals/open [get]
func (ctrl *MealController) GetOpenMeals(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	meals, err := ctrl.MealService.GetOpenMeals(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, meals)
}

// Join godoc
// @Summary 加入开放饭局
// @Description 加入后直接为已确认状态
// @Tags 饭局
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭局ID"
// @Success 200 {object} util.Response "成功"
// @Failure 422 {object} util.Response "饭局不开放或已开始"
// @Router /api/meals/{id}/join [post]
func (ctrl *MealController) Join(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭局ID")
		return
	}

	if err := ctrl.MealService.JoinOpenMeal(claims.UserID, uint(mealID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// RespondInvite godoc
// @Summary 回应个人邀请
// @Description 仅允许 invited 到 confirmed 或 declined
// @Tags 饭局
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭局ID"
// @Param   request body ParticipantStatusRequest true "回应"
// @Success 200 {object} util.Response "成功"
// @Failure 422 {object} util.Response "状态不允许变更"
// @Router /api/meals/{id}/respond [post]
func (ctrl *MealController) RespondInvite(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭局ID")
		return
	}

	var req ParticipantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.MealService.UpdateParticipantStatus(uint(mealID), claims.UserID, req.Status); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// RespondSquadInvite godoc
// @Summary 以饭团身份回应整团邀请
// @Description 确认时全团参与者一并置为已确认
// @Tags 饭局
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭局ID"
// @Param   request body SquadInviteResponseRequest true "回应"
// @Success 200 {object} util.Response "成功"
// @Router /api/meals/{id}/squad-respond [post]
func (ctrl *MealController) RespondSquadInvite(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭局ID")
		return
	}

	var req SquadInviteResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.MealService.RespondToSquadInvite(claims.UserID, uint(mealID), req.SquadID, req.Status); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}

// Delete godoc
// @Summary 删除饭局
// @Description 仅发起人可删除
// @Tags 饭局
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "饭局ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/meals/{id} [delete]
func (ctrl *MealController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "无效的饭局ID")
		return
	}

	if err := ctrl.MealService.DeleteMeal(claims.UserID, uint(mealID)); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, nil)
}
