package scheduler

import (
	"log"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/gateway"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/repository"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler    gocron.Scheduler
	paymentLogic *logic.PaymentLogic
	config       *config.Config
}

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// NewManager 创建新的任务管理器
func NewManager(store *repository.Store, gw *gateway.Client, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	paymentLogic := logic.NewPaymentLogic(
		repository.NewPaymentRepository(store),
		repository.NewContestRepository(store),
		gw,
		cfg,
	)

	return &Manager{
		scheduler:    s,
		paymentLogic: paymentLogic,
		config:       cfg,
	}
}

// Start 启动任务管理器
func Start(store *repository.Store, gw *gateway.Client, cfg *config.Config) *Manager {
	manager := NewManager(store, gw, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	log.Println("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.registerJob(NewPaymentReconcileJob(m.paymentLogic, m.config))
	m.registerJob(NewPendingExpiryJob(m.paymentLogic, m.config))
}

// registerJob 注册单个任务
func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		log.Printf("Failed to shutdown scheduler: %v", err)
	}
	log.Println("Task manager stopped")
}
