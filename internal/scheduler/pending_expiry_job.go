package scheduler

import (
	"context"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// PendingExpiryJob 待支付记录过期任务。
// 网关会话有时效，超时仍未收到回调的pending记录置为失败
type PendingExpiryJob struct {
	paymentLogic *logic.PaymentLogic
	config       *config.Config
}

// NewPendingExpiryJob 创建过期任务
func NewPendingExpiryJob(paymentLogic *logic.PaymentLogic, cfg *config.Config) *PendingExpiryJob {
	return &PendingExpiryJob{
		paymentLogic: paymentLogic,
		config:       cfg,
	}
}

// GetName 获取任务名称
func (j *PendingExpiryJob) GetName() string {
	return "pending_payment_expirer"
}

// GetSchedule 获取调度配置
func (j *PendingExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *PendingExpiryJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ttl := time.Duration(j.config.Scheduler.PendingTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	expired, err := j.paymentLogic.ExpireStalePending(ctx, ttl)
	if err != nil {
		logger.Error("Pending payment expiry failed: %v", err)
		return
	}

	if expired > 0 {
		logger.Info("Expired %d stale pending payments", expired)
	}
}
