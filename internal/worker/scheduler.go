package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/service"

	"github.com/robfig/cron/v3"
)

const defaultAutoReceiveSpec = "0 */10 * * * *"

// autoReceiveSweeper 批量确认收货的最小依赖
type autoReceiveSweeper interface {
	SweepAutoReceive(now time.Time) (int, error)
}

var _ autoReceiveSweeper = (*service.OrderService)(nil)

// Scheduler 定时任务服务，兜底处理未被队列覆盖的超时收货订单
type Scheduler struct {
	name    string
	spec    string
	cron    *cron.Cron
	sweeper autoReceiveSweeper
	now     func() time.Time
}

// NewScheduler 创建定时任务服务
func NewScheduler(spec string, sweeper autoReceiveSweeper) (*Scheduler, error) {
	if sweeper == nil {
		return nil, errors.New("auto receive sweeper is nil")
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = defaultAutoReceiveSpec
	}
	s := &Scheduler{
		name:    "scheduler",
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		sweeper: sweeper,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.runAutoReceive); err != nil {
		return nil, err
	}
	return s, nil
}

// Name 服务名称
func (s *Scheduler) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start 启动定时任务并阻塞到上下文结束
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	s.cron.Start()
	logger.Infow("scheduler_started", "auto_receive_spec", s.spec)
	<-ctx.Done()
	return nil
}

// Stop 停止定时任务，等待执行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runAutoReceive() {
	received, err := s.sweeper.SweepAutoReceive(s.now())
	if err != nil {
		logger.Warnw("scheduler_auto_receive_failed", "received", received, "error", err)
		return
	}
	if received > 0 {
		logger.Infow("scheduler_auto_receive_done", "received", received)
	}
}
