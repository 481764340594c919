package logic

import "errors"

// 业务错误类型，handler层据此映射HTTP状态码
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")

	// ErrConflict 非法状态迁移，例如对已失败的支付重放成功回调
	ErrConflict = errors.New("invalid state transition")

	// ErrUpstream 支付网关不可用或拒绝请求
	ErrUpstream = errors.New("payment gateway failure")

	// ErrValidation 请求字段非法
	ErrValidation = errors.New("invalid request")

	// ErrForbidden 非管理员执行管理操作
	ErrForbidden = errors.New("operation not permitted")
)
