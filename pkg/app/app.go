// Package app 提供应用程序的初始化和启动功能.
package app

import (
	contextPkg "context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/artifactvault/pkg/api"
	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/jobs"
	"github.com/yeisme/artifactvault/pkg/internal/service"
	"github.com/yeisme/artifactvault/pkg/internal/storage"
	"github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/metrics"
	"github.com/yeisme/artifactvault/pkg/middleware"
	"github.com/yeisme/artifactvault/pkg/scheduler"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	processor *service.Processor
	sched     *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.New(ctx, config)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	// 后台消费者：单实例串行处理队列中的制品
	svc := service.New(manager, &config.Artifact)
	processor := service.NewProcessor(svc, config.Queue.PopTimeoutDuration())
	processor.Start(ctx)

	// 调度器与定时任务
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		l.Error().Err(err).Msg("register cron jobs failed")
	}

	sched.Start()

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.GzipMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	if config.Metrics.Enabled {
		engine.GET(config.Metrics.Path, metrics.Handler())
	}

	api.RegisterGroup(engine)

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		processor: processor,
		sched:     sched,
	}
}

// Run 启动 HTTP 服务并在收到退出信号后优雅关闭：
// 先停 HTTP，再停消费者（等当前制品处理完）与调度器，最后关存储连接.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		log.Logger().Info().Str("addr", addr).Msg("server listening")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdownBackground()
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Logger().Error().Err(err).Msg("http shutdown failed")
	}

	a.shutdownBackground()

	return nil
}

// shutdownBackground 停止后台组件并释放存储连接.
func (a *App) shutdownBackground() {
	if a.processor != nil {
		a.processor.Stop()
	}

	if a.sched != nil {
		if err := a.sched.Stop(); err != nil {
			log.Logger().Error().Err(err).Msg("scheduler shutdown failed")
		}
	}

	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			log.Logger().Error().Err(err).Msg("close storage failed")
		}
	}
}
