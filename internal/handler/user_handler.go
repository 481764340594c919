package handler

import (
	"fmt"
	"net/http"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	userLogic *logic.UserLogic
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userLogic *logic.UserLogic) *UserHandler {
	return &UserHandler{userLogic: userLogic}
}

// CreateUser 注册用户，邮箱已存在时不重复创建
func (h *UserHandler) CreateUser(c *gin.Context) {
	var user model.UserModel
	if err := c.ShouldBindJSON(&user); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	created, err := h.userLogic.CreateUser(c.Request.Context(), &user)
	if err != nil {
		logger.Error("Failed to create user %s: %v", user.Email, err)
		ErrorResponseFromErr(c, err)
		return
	}

	if !created {
		SuccessResponse(c, http.StatusOK, "用户已存在", nil)
		return
	}
	SuccessResponse(c, http.StatusCreated, "用户创建成功", user)
}

// GetUsers 获取全部用户
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userLogic.GetUsers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users: %v", err)
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// ToggleBlock 切换用户封禁状态，仅管理员可操作
func (h *UserHandler) ToggleBlock(c *gin.Context) {
	targetID := c.Param("id")

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	blocked, err := h.userLogic.ToggleBlock(c.Request.Context(), req.CurrentUserID, targetID)
	if err != nil {
		logger.Error("Failed to toggle block for user %s: %v", targetID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	action := "解封"
	if blocked {
		action = "封禁"
	}
	SuccessResponse(c, http.StatusOK, fmt.Sprintf("用户%s成功", action), gin.H{"blocked": blocked})
}

// ChangeRole 变更用户角色，仅管理员可操作
func (h *UserHandler) ChangeRole(c *gin.Context) {
	targetID := c.Param("id")

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	if err := h.userLogic.ChangeRole(c.Request.Context(), req.CurrentUserID, targetID, model.UserRole(req.Role)); err != nil {
		logger.Error("Failed to change role for user %s: %v", targetID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, fmt.Sprintf("用户角色已变更为%s", req.Role), nil)
}

// DeleteUser 删除用户，仅管理员可操作
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	if err := h.userLogic.DeleteUser(c.Request.Context(), req.CurrentUserID, targetID); err != nil {
		logger.Error("Failed to delete user %s: %v", targetID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "用户删除成功", nil)
}
