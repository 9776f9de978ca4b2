package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 在 worker 上執行的工作
type Job func(ctx context.Context) (interface{}, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Job     Job
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Value interface{}
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int  `json:"queue_length"`
	ProcessedCount int  `json:"processed_count"`
	RejectedCount  int  `json:"rejected_count"`
	MaxQueueSize   int  `json:"max_queue_size"`
	Workers        int  `json:"workers"`
	Closed         bool `json:"closed"`
}

// Manager 有界隊列與固定數量的 worker
type Manager struct {
	cfg       config.QueueConfig
	queue     chan *Request
	processed int64
	rejected  int64
	mu        sync.RWMutex
	closed    bool
	started   bool
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	return &Manager{
		cfg:   cfg,
		queue: make(chan *Request, cfg.MaxSize),
	}
}

// Start 啟動 worker
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closed {
		return
	}
	m.started = true

	for i := 0; i < m.cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("Queue workers started",
		zap.Int("workers", m.cfg.Workers),
		zap.Int("max_queue_size", m.cfg.MaxSize),
	)
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for req := range m.queue {
		// 請求已取消就不執行
		if err := req.Context.Err(); err != nil {
			req.Result <- Result{Error: err}
			continue
		}

		value, err := req.Job(req.Context)
		m.IncrementProcessed()
		req.Result <- Result{Value: value, Error: err}

		common.LogDebug("Queue job finished",
			zap.Int("worker", id),
			zap.Bool("failed", err != nil),
		)
	}
}

// Enqueue 將工作加入隊列，隊列已滿時立即回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Job:     job,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.cfg.MaxSize),
		)
		return req.Result, nil
	default:
		atomic.AddInt64(&m.rejected, 1)
		common.LogWarn("Queue is full",
			zap.Int("max_queue_size", m.cfg.MaxSize),
		)
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果或 ctx 結束
func (m *Manager) Submit(ctx context.Context, job Job) (interface{}, error) {
	resultCh, err := m.Enqueue(ctx, job)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-resultCh:
		return res.Value, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		RejectedCount:  int(atomic.LoadInt64(&m.rejected)),
		MaxQueueSize:   m.cfg.MaxSize,
		Workers:        m.cfg.Workers,
		Closed:         m.closed,
	}
}

// IncrementProcessed 增加處理計數
func (m *Manager) IncrementProcessed() {
	atomic.AddInt64(&m.processed, 1)
}

// Close 停止接收新工作，等待隊列中的工作處理完畢
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	started := m.started
	m.mu.Unlock()

	if !started {
		// 沒有 worker 時直接回覆剩餘請求
		for req := range m.queue {
			req.Result <- Result{Error: common.ErrQueueClosed}
		}
		return
	}
	m.wg.Wait()

	common.LogInfo("Queue manager closed",
		zap.Int64("processed", atomic.LoadInt64(&m.processed)),
	)
}
