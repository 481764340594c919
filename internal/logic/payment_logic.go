package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/gateway"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentStore 支付记录存取接口，便于测试时替换实现
type PaymentStore interface {
	Insert(ctx context.Context, payment *model.PaymentModel) error
	FindByTransactionID(ctx context.Context, tranID string) (*model.PaymentModel, error)
	List(ctx context.Context, author string) ([]model.PaymentModel, error)
	MarkSuccessIfPending(ctx context.Context, tranID string) (bool, error)
	MarkFailedIfPending(ctx context.Context, tranID string) (bool, error)
	MarkCreditedIfUncredited(ctx context.Context, tranID string) (bool, error)
	ClearCredited(ctx context.Context, tranID string) error
	SetReceiptLink(ctx context.Context, tranID string, link string) error
	FindUncredited(ctx context.Context) ([]model.PaymentModel, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContestStore 竞赛存取接口，支付逻辑只用到查询与计数
type ContestStore interface {
	FindByID(ctx context.Context, id string) (*model.ContestModel, error)
	IncrementParticipants(ctx context.Context, id string, delta int64) error
}

// GatewayClient 支付网关接口
type GatewayClient interface {
	Initiate(ctx context.Context, req gateway.PaymentRequest) (string, error)
}

// PaymentLogic 报名费支付业务逻辑，驱动单笔支付从发起到终态
type PaymentLogic struct {
	payments PaymentStore
	contests ContestStore
	gateway  GatewayClient
	urls     config.URLConfig
	poolSize int
}

// InitiatePaymentParams 发起支付参数
type InitiatePaymentParams struct {
	Name        string // 付款人姓名
	Email       string // 付款人邮箱
	AuthorEmail string // 竞赛创建者邮箱
	ContestID   string
	EntryFee    int64 // 客户端声明的金额，仅校验用，实际按竞赛记录收费
}

// NewPaymentLogic 创建支付业务逻辑
func NewPaymentLogic(payments PaymentStore, contests ContestStore, gw GatewayClient, cfg *config.Config) *PaymentLogic {
	poolSize := cfg.Scheduler.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	return &PaymentLogic{
		payments: payments,
		contests: contests,
		gateway:  gw,
		urls:     cfg.URLs,
		poolSize: poolSize,
	}
}

// InitiatePayment 发起报名费支付，返回收银台跳转地址与交易号。
// 网关调用成功后、返回跳转地址前写入pending记录，保证回调到达时一定有记录可对账；
// 网关调用失败则不落任何本地状态
func (l *PaymentLogic) InitiatePayment(ctx context.Context, params InitiatePaymentParams) (string, string, error) {
	if err := l.validateInitiateParams(params); err != nil {
		return "", "", err
	}

	contest, err := l.contests.FindByID(ctx, params.ContestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", "", fmt.Errorf("contest %s: %w", params.ContestID, ErrNotFound)
		}
		return "", "", err
	}

	// 不信任客户端金额，以竞赛记录的报名费为准
	fee := contest.EntryFee
	if params.EntryFee != 0 && params.EntryFee != fee {
		logger.Warn("Client-supplied entry fee %d differs from contest fee %d for contest %s, charging contest fee",
			params.EntryFee, fee, params.ContestID)
	}

	tranID := uuid.NewString()

	redirectURL, err := l.gateway.Initiate(ctx, gateway.PaymentRequest{
		Amount:        fee,
		Currency:      "BDT",
		TranID:        tranID,
		SuccessURL:    fmt.Sprintf("%s/payment/success/%s", l.urls.ServerBase, tranID),
		FailURL:       fmt.Sprintf("%s/payment/fail/%s", l.urls.ServerBase, tranID),
		CancelURL:     fmt.Sprintf("%s/payment/cancel/%s", l.urls.ServerBase, tranID),
		ProductName:   contest.ContestName,
		CustomerName:  params.Name,
		CustomerEmail: params.Email,
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	payment := &model.PaymentModel{
		TransactionId: tranID,
		Name:          params.Name,
		Email:         params.Email,
		Author:        params.AuthorEmail,
		ContestId:     params.ContestID,
		ContestName:   contest.ContestName,
		EntryFee:      fee,
		Status:        model.PaymentStatusPending,
	}
	if err := l.payments.Insert(ctx, payment); err != nil {
		// 网关会话已创建但本地无记录，回调将以NotFound落地，只能报错让用户重试
		return "", "", fmt.Errorf("failed to persist pending payment %s: %w", tranID, err)
	}

	return redirectURL, tranID, nil
}

// HandleSuccessCallback 处理网关成功回调。
// 条件更新 pending -> success 作为幂等闸门，重复或并发回调只有一个会赢得状态迁移，
// 只有赢家才累加参赛计数，保证每笔交易至多累加一次
func (l *PaymentLogic) HandleSuccessCallback(ctx context.Context, tranID string) error {
	payment, err := l.payments.FindByTransactionID(ctx, tranID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("payment %s: %w", tranID, ErrNotFound)
		}
		return err
	}

	switch payment.Status {
	case model.PaymentStatusSuccess:
		// 网关重复投递，幂等返回
		return nil
	case model.PaymentStatusFailed:
		return fmt.Errorf("payment %s already failed: %w", tranID, ErrConflict)
	}

	won, err := l.payments.MarkSuccessIfPending(ctx, tranID)
	if err != nil {
		return err
	}
	if !won {
		// 并发回调竞争失败，按当前终态处理
		payment, err = l.payments.FindByTransactionID(ctx, tranID)
		if err != nil {
			return err
		}
		if payment.Status == model.PaymentStatusSuccess {
			return nil
		}
		return fmt.Errorf("payment %s already failed: %w", tranID, ErrConflict)
	}

	if _, err := l.creditParticipant(ctx, payment); err != nil {
		// 状态已是success，计数留给对账任务修复
		logger.Error("Failed to credit participant for payment %s: %v", tranID, err)
	}

	return nil
}

// creditParticipant 累加参赛计数，credited标记为幂等闸门。
// 先条件抢占标记再累加，回调与对账任务并发时只有赢家会累加，计数至多加一次；
// 累加失败则回滚标记，交由对账任务重试。返回本次调用是否完成了累加
func (l *PaymentLogic) creditParticipant(ctx context.Context, payment *model.PaymentModel) (bool, error) {
	won, err := l.payments.MarkCreditedIfUncredited(ctx, payment.TransactionId)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	if err := l.contests.IncrementParticipants(ctx, payment.ContestId, 1); err != nil {
		if clearErr := l.payments.ClearCredited(ctx, payment.TransactionId); clearErr != nil {
			// 标记无法回滚，该笔计数将永久缺失，必须高优先级排查
			logger.Error("Increment failed and credited flag stuck for payment %s: %v", payment.TransactionId, clearErr)
		}
		return false, err
	}
	return true, nil
}

// HandleFailureCallback 处理网关失败回调，pending记录置为failed，终态记录幂等返回。
// 此路径永不触碰竞赛计数
func (l *PaymentLogic) HandleFailureCallback(ctx context.Context, tranID string) error {
	payment, err := l.payments.FindByTransactionID(ctx, tranID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("payment %s: %w", tranID, ErrNotFound)
		}
		return err
	}

	if payment.Status.Terminal() {
		return nil
	}

	if _, err := l.payments.MarkFailedIfPending(ctx, tranID); err != nil {
		return err
	}
	return nil
}

// HandleCancelCallback 处理网关取消回调，状态处理与失败一致
func (l *PaymentLogic) HandleCancelCallback(ctx context.Context, tranID string) error {
	return l.HandleFailureCallback(ctx, tranID)
}

// GetPaymentHistory 获取支付记录，author非空时按创建者邮箱过滤
func (l *PaymentLogic) GetPaymentHistory(ctx context.Context, author string) ([]model.PaymentModel, error) {
	return l.payments.List(ctx, author)
}

// AttachReceipt 为终态支付记录补充回执链接
func (l *PaymentLogic) AttachReceipt(ctx context.Context, tranID string, link string) (*model.PaymentModel, error) {
	if link == "" {
		return nil, fmt.Errorf("receipt link is required: %w", ErrValidation)
	}

	payment, err := l.payments.FindByTransactionID(ctx, tranID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payment %s: %w", tranID, ErrNotFound)
		}
		return nil, err
	}

	if !payment.Status.Terminal() {
		return nil, fmt.Errorf("payment %s is not terminal: %w", tranID, ErrConflict)
	}

	if err := l.payments.SetReceiptLink(ctx, tranID, link); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payment %s: %w", tranID, ErrNotFound)
		}
		return nil, err
	}

	payment.PdfLink = link
	return payment, nil
}

// ReconcileUncredited 修复支付成功但参赛计数未累加的记录，返回修复条数。
// 由定时任务周期性调用
func (l *PaymentLogic) ReconcileUncredited(ctx context.Context) (int, error) {
	payments, err := l.payments.FindUncredited(ctx)
	if err != nil {
		return 0, err
	}
	if len(payments) == 0 {
		return 0, nil
	}

	poolSize := l.poolSize
	if len(payments) < poolSize {
		poolSize = len(payments)
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create reconcile pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var repaired int64

	for i := range payments {
		payment := payments[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			credited, err := l.creditParticipant(ctx, &payment)
			if err != nil {
				logger.Error("Reconcile failed for payment %s: %v", payment.TransactionId, err)
				return
			}
			if credited {
				atomic.AddInt64(&repaired, 1)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit reconcile task: %v", err)
		}
	}
	wg.Wait()

	return int(repaired), nil
}

// ExpireStalePending 将超时未完成的待支付记录置为失败，返回处理条数
func (l *PaymentLogic) ExpireStalePending(ctx context.Context, ttl time.Duration) (int64, error) {
	return l.payments.ExpirePendingBefore(ctx, time.Now().Add(-ttl))
}

// validateInitiateParams 校验发起支付参数
func (l *PaymentLogic) validateInitiateParams(params InitiatePaymentParams) error {
	if params.Name == "" {
		return fmt.Errorf("payer name is required: %w", ErrValidation)
	}
	if params.Email == "" {
		return fmt.Errorf("payer email is required: %w", ErrValidation)
	}
	if params.ContestID == "" {
		return fmt.Errorf("contest id is required: %w", ErrValidation)
	}
	if !primitive.IsValidObjectID(params.ContestID) {
		return fmt.Errorf("contest id %q is malformed: %w", params.ContestID, ErrValidation)
	}
	if params.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative: %w", ErrValidation)
	}
	return nil
}
