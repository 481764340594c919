package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/gateway"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/repository"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/router"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志器
	initLogger(cfg.Log)
	defer logger.Sync()

	// 初始化文档库
	store, err := repository.Init(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to initialize mongodb: %v", err)
	}

	// 初始化支付网关客户端
	gw := gateway.New(cfg.SSLCommerz)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(store, gw, cfg)

	// 启动定时任务
	sched := scheduler.Start(store, gw, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待退出信号，关闭服务器、调度器与文档库连接
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server: %v", err)
	}
	sched.Stop()
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("Failed to disconnect mongodb: %v", err)
	}
}

// initLogger 按配置初始化默认日志器
func initLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	var (
		l   *logger.Logger
		err error
	)
	if cfg.Output == "file" && cfg.File != "" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.SetDefaultLogger(l)
}
