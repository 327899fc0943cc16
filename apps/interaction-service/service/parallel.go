package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"collide-social/pkg/logger"
)

// forEachBounded 以有限并发对 [0, n) 执行fn
// 每个任务只写自己的下标槽位；任务panic会被记录并吞掉，不影响其他任务
func forEachBounded(ctx context.Context, log logger.Logger, name string, limit, n int, fn func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error(gctx, "Recovered panic in interaction task",
						logger.F("task", name),
						logger.F("index", i),
						logger.F("panic", fmt.Sprint(r)))
				}
			}()
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
