package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// DefaultStopTimeout 停止钩子的总超时
const DefaultStopTimeout = 30 * time.Second

// LifecycleManager 生命周期管理器
type LifecycleManager struct {
	logger      kratoslog.Logger
	hooks       []Hook
	started     int
	stopTimeout time.Duration
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	stopOnce    sync.Once
}

// Hook 生命周期钩子
type Hook struct {
	Name     string                      // 钩子名称
	OnStart  func(context.Context) error // 启动时执行的函数
	OnStop   func(context.Context) error // 停止时执行的函数
	Priority int                         // 优先级，数字越小越先启动、越后停止
	// Priority分级:
	// 0-99:    基础设施层（数据库、Redis、Kafka连接）
	// 100-199: 服务器层（HTTP、gRPC服务器）
	// 200-299: 后台任务（Kafka消费者）
	// 300+:    资源释放
}

// NewLifecycleManager 创建生命周期管理器
func NewLifecycleManager(logger kratoslog.Logger) *LifecycleManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &LifecycleManager{
		logger:      logger,
		hooks:       make([]Hook, 0),
		stopTimeout: DefaultStopTimeout,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// AddHook 添加生命周期钩子，同优先级按添加顺序执行
func (lm *LifecycleManager) AddHook(hook Hook) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.hooks = append(lm.hooks, hook)
	sort.SliceStable(lm.hooks, func(i, j int) bool {
		return lm.hooks[i].Priority < lm.hooks[j].Priority
	})
}

// Start 按优先级启动所有钩子，任一失败时回滚已启动的钩子
func (lm *LifecycleManager) Start() error {
	lm.mu.Lock()
	hooks := append([]Hook(nil), lm.hooks...)
	lm.mu.Unlock()

	lm.logger.Log(kratoslog.LevelInfo, "msg", "Starting lifecycle hooks", "count", len(hooks))

	for i, hook := range hooks {
		if hook.OnStart != nil {
			if err := hook.OnStart(lm.ctx); err != nil {
				lm.logger.Log(kratoslog.LevelError, "msg", "Hook start failed", "name", hook.Name, "error", err)
				lm.setStarted(i)
				lm.Stop()
				return err
			}
			lm.logger.Log(kratoslog.LevelInfo, "msg", "Hook started", "name", hook.Name)
		}
	}

	lm.setStarted(len(hooks))
	return nil
}

func (lm *LifecycleManager) setStarted(n int) {
	lm.mu.Lock()
	lm.started = n
	lm.mu.Unlock()
}

// Stop 逆序停止已启动的钩子，只执行一次
func (lm *LifecycleManager) Stop() error {
	var stopErr error

	lm.stopOnce.Do(func() {
		lm.mu.Lock()
		hooks := append([]Hook(nil), lm.hooks[:lm.started]...)
		lm.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), lm.stopTimeout)
		defer cancel()

		for i := len(hooks) - 1; i >= 0; i-- {
			hook := hooks[i]
			if hook.OnStop == nil {
				continue
			}
			if err := hook.OnStop(ctx); err != nil {
				lm.logger.Log(kratoslog.LevelError, "msg", "Hook stop failed", "name", hook.Name, "error", err)
				if stopErr == nil {
					stopErr = err
				}
				continue
			}
			lm.logger.Log(kratoslog.LevelInfo, "msg", "Hook stopped", "name", hook.Name)
		}

		lm.cancel()
		close(lm.done)
	})

	return stopErr
}

// Wait 等待系统信号或主动停止
func (lm *LifecycleManager) Wait() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		lm.logger.Log(kratoslog.LevelInfo, "msg", "Received signal", "signal", sig.String())
		lm.Stop()
	case <-lm.done:
	}
}

// Context 获取生命周期上下文，Stop后被取消
func (lm *LifecycleManager) Context() context.Context {
	return lm.ctx
}

// Done 获取完成通道
func (lm *LifecycleManager) Done() <-chan struct{} {
	return lm.done
}
