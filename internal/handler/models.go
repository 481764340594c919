package handler

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JWTRequest 签发令牌请求
type JWTRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// JWTResponse 签发令牌响应
type JWTResponse struct {
	Token string `json:"token"`
}

// AdminActionRequest 管理操作请求，携带操作者ID
type AdminActionRequest struct {
	CurrentUserID string `json:"currentUserID" binding:"required"`
}

// ChangeRoleRequest 角色变更请求
type ChangeRoleRequest struct {
	CurrentUserID string `json:"currentUserID" binding:"required"`
	Role          string `json:"role" binding:"required"`
}

// InitiatePaymentRequest 发起支付请求，email1为竞赛创建者邮箱，沿用前端既有字段名
type InitiatePaymentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Email1    string `json:"email1"`
	ContestID string `json:"contestId" binding:"required"`
	EntryFee  int64  `json:"entryFee"`
}

// InitiatePaymentResponse 发起支付响应，url为收银台跳转地址
type InitiatePaymentResponse struct {
	URL string `json:"url"`
}

// AttachReceiptRequest 补充回执请求
type AttachReceiptRequest struct {
	PdfLink string `json:"pdfLink" binding:"required"`
}
