package scheduler

import (
	"context"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// PaymentReconcileJob 支付对账任务。
// 支付成功但参赛计数未累加的记录在此兜底修复
type PaymentReconcileJob struct {
	paymentLogic *logic.PaymentLogic
	config       *config.Config
}

// NewPaymentReconcileJob 创建支付对账任务
func NewPaymentReconcileJob(paymentLogic *logic.PaymentLogic, cfg *config.Config) *PaymentReconcileJob {
	return &PaymentReconcileJob{
		paymentLogic: paymentLogic,
		config:       cfg,
	}
}

// GetName 获取任务名称
func (j *PaymentReconcileJob) GetName() string {
	return "payment_reconciler"
}

// GetSchedule 获取调度配置
func (j *PaymentReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *PaymentReconcileJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repaired, err := j.paymentLogic.ReconcileUncredited(ctx)
	if err != nil {
		logger.Error("Payment reconciliation failed: %v", err)
		return
	}

	if repaired > 0 {
		logger.Info("Payment reconciliation repaired %d records", repaired)
	}
}
