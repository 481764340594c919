package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	paymentLogic *logic.PaymentLogic
	frontendBase string
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(paymentLogic *logic.PaymentLogic, urls config.URLConfig) *PaymentHandler {
	return &PaymentHandler{
		paymentLogic: paymentLogic,
		frontendBase: urls.FrontendBase,
	}
}

// InitiatePayment 发起报名费支付，返回收银台跳转地址
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	redirectURL, tranID, err := h.paymentLogic.InitiatePayment(c.Request.Context(), logic.InitiatePaymentParams{
		Name:        req.Name,
		Email:       req.Email,
		AuthorEmail: req.Email1,
		ContestID:   req.ContestID,
		EntryFee:    req.EntryFee,
	})
	if err != nil {
		logger.Error("Failed to initiate payment for contest %s: %v", req.ContestID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	logger.Info("Payment %s initiated for contest %s", tranID, req.ContestID)
	c.JSON(http.StatusOK, InitiatePaymentResponse{URL: redirectURL})
}

// PaymentSuccess 网关成功回调，处理完毕后跳转前端结果页。
// 回调可能重复或乱序投递，无论处理结果如何都回应网关，避免重试风暴
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	tranID := c.Param("tranId")

	if err := h.paymentLogic.HandleSuccessCallback(c.Request.Context(), tranID); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			// 伪造回调或记录丢失，必须留痕
			logger.Error("Success callback for unknown transaction %s", tranID)
		} else {
			logger.Error("Failed to handle success callback for %s: %v", tranID, err)
		}
		c.Redirect(http.StatusFound, h.resultURL("fail", tranID))
		return
	}

	c.Redirect(http.StatusFound, h.resultURL("success", tranID))
}

// PaymentFail 网关失败回调
func (h *PaymentHandler) PaymentFail(c *gin.Context) {
	tranID := c.Param("tranId")

	if err := h.paymentLogic.HandleFailureCallback(c.Request.Context(), tranID); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			logger.Error("Failure callback for unknown transaction %s", tranID)
		} else {
			logger.Error("Failed to handle failure callback for %s: %v", tranID, err)
		}
	}

	c.Redirect(http.StatusFound, h.resultURL("fail", tranID))
}

// PaymentCancel 网关取消回调，状态处理与失败一致
func (h *PaymentHandler) PaymentCancel(c *gin.Context) {
	tranID := c.Param("tranId")

	if err := h.paymentLogic.HandleCancelCallback(c.Request.Context(), tranID); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			logger.Error("Cancel callback for unknown transaction %s", tranID)
		} else {
			logger.Error("Failed to handle cancel callback for %s: %v", tranID, err)
		}
	}

	c.Redirect(http.StatusFound, h.resultURL("fail", tranID))
}

// GetPaymentHistory 获取支付记录，email参数非空时按创建者邮箱过滤
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	author := c.Query("email")

	payments, err := h.paymentLogic.GetPaymentHistory(c.Request.Context(), author)
	if err != nil {
		logger.Error("Failed to list payment history: %v", err)
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// AttachReceipt 为终态支付记录补充回执链接
func (h *PaymentHandler) AttachReceipt(c *gin.Context) {
	tranID := c.Param("transactionId")

	var req AttachReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	payment, err := h.paymentLogic.AttachReceipt(c.Request.Context(), tranID, req.PdfLink)
	if err != nil {
		logger.Error("Failed to attach receipt for %s: %v", tranID, err)
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// resultURL 拼接前端支付结果页地址
func (h *PaymentHandler) resultURL(result string, tranID string) string {
	return fmt.Sprintf("%s/payment/%s/%s", h.frontendBase, result, tranID)
}
