package handler

import (
	"net/http"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler 令牌签发处理器
type AuthHandler struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthHandler 创建令牌签发处理器
func NewAuthHandler(cfg config.JWTConfig) *AuthHandler {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &AuthHandler{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
	}
}

// IssueToken 按用户信息签发HS256令牌
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req JWTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": req.Email,
		"name":  req.Name,
		"role":  req.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(h.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		logger.Error("Failed to sign token for %s: %v", req.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "令牌签发失败")
		return
	}

	c.JSON(http.StatusOK, JWTResponse{Token: token})
}
