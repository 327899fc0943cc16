package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"
	"google.golang.org/grpc"

	"collide-social/pkg/config"
	"collide-social/pkg/database"
	"collide-social/pkg/kafka"
	"collide-social/pkg/lifecycle"
	"collide-social/pkg/logger"
	"collide-social/pkg/middleware"
	"collide-social/pkg/redis"
	"collide-social/pkg/telemetry"
)

// Application 应用程序框架
type Application struct {
	serviceName    string
	config         *config.Config
	logger         kratoslog.Logger
	originalLogger logger.Logger
	serverManager  *ServerManager
	lifecycle      *lifecycle.LifecycleManager

	// 基础设施组件
	postgreSQL    *database.PostgreSQL
	redisClient   *redis.RedisClient
	kafkaProducer *kafka.Producer

	// 中间件
	loggingMiddleware *middleware.LoggingMiddleware
	otelMiddleware    *middleware.OTelMiddleware

	// 注册函数
	httpRouteRegister   func(*gin.Engine)
	grpcServiceRegister func(*grpc.Server)
}

// NewApplication 创建应用程序并初始化基础设施
func NewApplication(serviceName string) (*Application, error) {
	cfg, err := config.LoadConfig(serviceName)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	originalLogger := logger.GetLogger()

	// 基础设施组件通过Kratos接口写入同一个zap日志
	kratosLogger := kratoslog.With(logger.NewKratosLogger(originalLogger),
		"service", cfg.App.Name,
		"version", cfg.App.Version,
	)

	loggingMiddleware := middleware.NewLoggingMiddleware(kratosLogger)
	otelMiddleware := middleware.NewOTelMiddleware(serviceName)

	app := &Application{
		serviceName:    serviceName,
		config:         cfg,
		logger:         kratosLogger,
		originalLogger: originalLogger,
		lifecycle:      lifecycle.NewLifecycleManager(kratosLogger),
		serverManager: NewServerManager(cfg, kratosLogger,
			grpc.ChainUnaryInterceptor(
				loggingMiddleware.GRPCRecovery(),
				otelMiddleware.GRPCUnaryServerInterceptor(),
				loggingMiddleware.GRPCLogging(),
			),
		),
		loggingMiddleware: loggingMiddleware,
		otelMiddleware:    otelMiddleware,
	}

	if err := app.initInfrastructure(); err != nil {
		return nil, err
	}

	return app, nil
}

// initInfrastructure 初始化基础设施组件，PostgreSQL必需，Redis与Kafka不可用时降级
func (app *Application) initInfrastructure() error {
	ctx := context.Background()

	if app.config.Telemetry.Enabled {
		tcfg := telemetry.DefaultConfig(app.serviceName)
		tcfg.ServiceVersion = app.config.App.Version
		tcfg.Environment = app.config.Telemetry.Environment
		tcfg.SampleRate = app.config.Telemetry.SampleRatio
		if err := telemetry.InitGlobal(tcfg); err != nil {
			app.logger.Log(kratoslog.LevelWarn, "msg", "Failed to init telemetry", "error", err)
		}
	}

	postgreSQL, err := database.NewPostgreSQL(app.config.Database.PostgreSQL, app.originalLogger)
	if err != nil {
		app.logger.Log(kratoslog.LevelFatal, "msg", "Failed to connect to PostgreSQL", "error", err)
		return err
	}
	app.postgreSQL = postgreSQL

	redisClient := redis.NewRedisClient(app.config.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx); err != nil {
		app.logger.Log(kratoslog.LevelWarn, "msg", "Redis unavailable, cache disabled", "addr", app.config.Redis.Addr, "error", err)
		redisClient.Close()
	} else {
		app.redisClient = redisClient
	}

	if app.config.Kafka.Enabled {
		kafkaProducer, err := kafka.InitProducer(app.config.Kafka.Brokers, app.originalLogger)
		if err != nil {
			app.logger.Log(kratoslog.LevelWarn, "msg", "Kafka unavailable, events disabled", "error", err)
		} else {
			app.kafkaProducer = kafkaProducer
		}
	}

	return nil
}

// EnableHTTP 启用HTTP服务器并安装公共中间件
func (app *Application) EnableHTTP() HTTPServer {
	httpServer := app.serverManager.EnableHTTP()

	httpServer.RegisterRoutes(func(engine *gin.Engine) {
		engine.Use(middleware.Recovery(app.originalLogger))
		engine.Use(middleware.CORS(app.config.Server.HTTP.CorsOrigins))
		engine.Use(app.otelMiddleware.GinMiddleware()...)
		engine.Use(app.loggingMiddleware.GinLogging())
	})

	return httpServer
}

// EnableGRPC 启用gRPC服务器
func (app *Application) EnableGRPC() GRPCServer {
	return app.serverManager.EnableGRPC()
}

// RegisterHTTPRoutes 注册HTTP路由
func (app *Application) RegisterHTTPRoutes(registerFunc func(*gin.Engine)) {
	app.httpRouteRegister = registerFunc
}

// RegisterGRPCService 注册gRPC服务
func (app *Application) RegisterGRPCService(registerFunc func(*grpc.Server)) {
	app.grpcServiceRegister = registerFunc
}

// AddLifecycleHook 注册业务钩子（如Kafka消费者）
func (app *Application) AddLifecycleHook(hook lifecycle.Hook) {
	app.lifecycle.AddHook(hook)
}

// GetRedisClient 获取Redis客户端，不可用时为nil
func (app *Application) GetRedisClient() *redis.RedisClient {
	return app.redisClient
}

// GetKafkaProducer 获取Kafka生产者，不可用时为nil
func (app *Application) GetKafkaProducer() *kafka.Producer {
	return app.kafkaProducer
}

// GetPostgreSQL 获取PostgreSQL连接
func (app *Application) GetPostgreSQL() *database.PostgreSQL {
	return app.postgreSQL
}

// GetLogger 获取业务日志器
func (app *Application) GetLogger() logger.Logger {
	return app.originalLogger
}

// GetConfig 获取配置
func (app *Application) GetConfig() *config.Config {
	return app.config
}

// Run 运行应用程序，阻塞直到收到停止信号
func (app *Application) Run() error {
	if err := app.registerLifecycleHooks(); err != nil {
		return err
	}

	if err := app.lifecycle.Start(); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	app.lifecycle.Wait()
	return nil
}

// registerLifecycleHooks 注册生命周期钩子
func (app *Application) registerLifecycleHooks() error {
	if app.httpRouteRegister != nil {
		if err := app.serverManager.RegisterHTTPRoutes(app.httpRouteRegister); err != nil {
			return err
		}
	}

	if app.grpcServiceRegister != nil {
		if err := app.serverManager.RegisterGRPCService(app.grpcServiceRegister); err != nil {
			return err
		}
	}

	app.lifecycle.AddHook(lifecycle.Hook{
		Name:     "servers",
		Priority: 100,
		OnStart: func(ctx context.Context) error {
			return app.serverManager.StartAll(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return app.serverManager.StopAll(ctx)
		},
	})

	// 资源释放在服务器和消费者之后
	app.lifecycle.AddHook(lifecycle.Hook{
		Name:     "infrastructure",
		Priority: 0,
		OnStop: func(ctx context.Context) error {
			if app.kafkaProducer != nil {
				if err := app.kafkaProducer.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close Kafka producer", "error", err)
				}
			}
			if app.redisClient != nil {
				if err := app.redisClient.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close Redis", "error", err)
				}
			}
			if app.postgreSQL != nil {
				if err := app.postgreSQL.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close PostgreSQL", "error", err)
				}
			}
			return telemetry.ShutdownGlobal(ctx)
		},
	})

	return nil
}
