package handler

import (
	"errors"
	"net/http"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ErrorResponseFromErr 按业务错误类型映射HTTP状态码，不向外泄露内部细节
func ErrorResponseFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logic.ErrValidation):
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
	case errors.Is(err, logic.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "记录不存在")
	case errors.Is(err, logic.ErrConflict):
		ErrorResponse(c, http.StatusConflict, "当前状态不允许该操作")
	case errors.Is(err, logic.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, "仅管理员可执行该操作")
	case errors.Is(err, logic.ErrUpstream):
		ErrorResponse(c, http.StatusInternalServerError, "支付网关异常，请稍后重试")
	default:
		ErrorResponse(c, http.StatusInternalServerError, "服务内部错误")
	}
}
