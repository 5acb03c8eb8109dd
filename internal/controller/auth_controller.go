package controller

import (
	"mealmate_backend/internal/model"
	"mealmate_backend/internal/service"
	"mealmate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthController 处理注册登录相关的HTTP请求
type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"王小明"`
	Email    string `json:"email" binding:"required,email" example:"xiaoming@example.com"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary 注册
// @Description 创建新账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   request body RegisterRequest true "注册请求"
// @Success 201 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := ctrl.AuthService.Register(user); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, user)
}

// Login godoc
// @Summary 登录
// @Description 邮箱密码登录，返回JWT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   request body LoginRequest true "登录请求"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "凭证错误"
// @Router /api/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, err := ctrl.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"token": token})
}

// GetProfile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user := ctrl.AuthService.GetCurrentUser(c)
	if user == nil {
		util.Unauthorized(c)
		return
	}
	util.Success(c, user)
}
