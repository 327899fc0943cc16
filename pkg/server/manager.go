package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"
	"google.golang.org/grpc"

	"collide-social/pkg/config"
)

// Server 可由ServerManager托管的服务器
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// healthReporter 对外暴露整体健康状态（gRPC健康检查服务）
type healthReporter interface {
	SetServing(service string, serving bool)
}

// namedServer 带名称的托管服务器，名称用于日志
type namedServer struct {
	name string
	Server
}

// ServerManager 管理互动服务的HTTP接口和gRPC健康检查服务器
// 任一服务器异常退出时，健康检查切换为NOT_SERVING
type ServerManager struct {
	config      *config.Config
	logger      kratoslog.Logger
	grpcOptions []grpc.ServerOption

	httpServer HTTPServer
	grpcServer GRPCServer
	health     healthReporter

	mu      sync.Mutex
	servers []namedServer
}

// NewServerManager 创建服务器管理器
func NewServerManager(cfg *config.Config, logger kratoslog.Logger, grpcOptions ...grpc.ServerOption) *ServerManager {
	return &ServerManager{
		config:      cfg,
		logger:      logger,
		grpcOptions: grpcOptions,
	}
}

// EnableHTTP 启用HTTP服务器，重复调用返回同一实例
func (sm *ServerManager) EnableHTTP() HTTPServer {
	if sm.httpServer == nil {
		sm.httpServer = NewHTTPServerWrapper(sm.config, sm.logger)
		sm.addServer("http", sm.httpServer)
	}
	return sm.httpServer
}

// EnableGRPC 启用gRPC服务器，其健康检查服务反映整个进程的状态
func (sm *ServerManager) EnableGRPC() GRPCServer {
	if sm.grpcServer == nil {
		sm.grpcServer = NewGRPCServerWrapper(sm.config, sm.logger, sm.grpcOptions...)
		sm.health = sm.grpcServer
		sm.addServer("grpc", sm.grpcServer)
	}
	return sm.grpcServer
}

// RegisterHTTPRoutes 注册HTTP路由，需先调用EnableHTTP
func (sm *ServerManager) RegisterHTTPRoutes(registerFunc func(*gin.Engine)) error {
	if sm.httpServer == nil {
		return errors.New("注册路由失败: HTTP服务器未启用")
	}
	sm.httpServer.RegisterRoutes(registerFunc)
	return nil
}

// RegisterGRPCService 注册gRPC服务，需先调用EnableGRPC
func (sm *ServerManager) RegisterGRPCService(registerFunc func(*grpc.Server)) error {
	if sm.grpcServer == nil {
		return errors.New("注册服务失败: gRPC服务器未启用")
	}
	sm.grpcServer.RegisterService(registerFunc)
	return nil
}

func (sm *ServerManager) addServer(name string, s Server) {
	sm.mu.Lock()
	sm.servers = append(sm.servers, namedServer{name: name, Server: s})
	sm.mu.Unlock()
}

func (sm *ServerManager) snapshot() []namedServer {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]namedServer(nil), sm.servers...)
}

// StartAll 在后台启动所有服务器，立即返回
func (sm *ServerManager) StartAll(ctx context.Context) error {
	servers := sm.snapshot()
	for _, s := range servers {
		go func(s namedServer) {
			if err := s.Start(ctx); err != nil {
				sm.logger.Log(kratoslog.LevelError, "msg", "Interaction service server exited", "server", s.name, "error", err)
				sm.setServing(false)
			}
		}(s)
	}

	sm.logger.Log(kratoslog.LevelInfo, "msg", "Interaction service servers started", "count", len(servers))
	return nil
}

// StopAll 先将健康检查置为NOT_SERVING，再按注册顺序停止服务器，汇总所有错误
func (sm *ServerManager) StopAll(ctx context.Context) error {
	sm.setServing(false)

	var errs []error
	for _, s := range sm.snapshot() {
		if err := s.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("停止服务器失败: %w", errors.Join(errs...))
	}
	return nil
}

func (sm *ServerManager) setServing(serving bool) {
	if sm.health != nil {
		sm.health.SetServing("", serving)
	}
}
