package manager

import (
	"context"
	"sync"
	"time"
)

const monitorInterval = 500 * time.Millisecond

// PoolMetrics holds the counters for the inference pool.
type PoolMetrics struct {
	Queued                 int
	Processing             int
	LastLogTime            time.Time
	queueSizeChanged       bool
	processingCountChanged bool
	mu                     sync.Mutex
}

// ConcurrencyManager bounds the number of inference calls running at once.
type ConcurrencyManager struct {
	sem      chan struct{}
	metrics  *PoolMetrics
	shutdown chan struct{}
	once     sync.Once
}

// NewConcurrencyManager creates a pool admitting at most size holders and starts
// its metrics monitor. Call Shutdown to stop the monitor.
func NewConcurrencyManager(size int) *ConcurrencyManager {
	if size <= 0 {
		log.Warnf("Invalid pool size %d. Setting to 1.", size)
		size = 1
	}
	cm := &ConcurrencyManager{
		sem:      make(chan struct{}, size),
		metrics:  &PoolMetrics{},
		shutdown: make(chan struct{}),
	}
	go cm.monitorMetrics()
	return cm
}

// Acquire blocks until a slot is free or ctx is done. On success the returned
// func must be called exactly once to give the slot back.
func (cm *ConcurrencyManager) Acquire(ctx context.Context) (func(), error) {
	metrics := cm.metrics
	metrics.adjust(1, 0)

	select {
	case cm.sem <- struct{}{}:
		metrics.adjust(-1, 1)

		var released sync.Once
		return func() {
			released.Do(func() {
				metrics.adjust(0, -1)
				<-cm.sem
			})
		}, nil
	case <-ctx.Done():
		metrics.adjust(-1, 0)
		return nil, ctx.Err()
	}
}

// Stats reports how many callers are waiting and how many hold a slot.
func (cm *ConcurrencyManager) Stats() (queued, processing int) {
	return cm.metrics.snapshot()
}

// Size is the number of slots in the pool.
func (cm *ConcurrencyManager) Size() int {
	return cap(cm.sem)
}

// monitorMetrics logs the counters at most once a second, and only when they changed.
func (cm *ConcurrencyManager) monitorMetrics() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.shutdown:
			return
		case now := <-ticker.C:
			m := cm.metrics
			m.mu.Lock()
			if (m.queueSizeChanged || m.processingCountChanged) && now.Sub(m.LastLogTime) >= time.Second {
				log.Infof("Inference pool | Queued: %d | Processing: %d", m.Queued, m.Processing)
				m.LastLogTime = now
				m.queueSizeChanged = false
				m.processingCountChanged = false
			}
			m.mu.Unlock()
		}
	}
}

// adjust moves the counters by the given deltas, never below zero.
func (m *PoolMetrics) adjust(queued, processing int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if queued != 0 {
		m.Queued = max(m.Queued+queued, 0)
		m.queueSizeChanged = true
	}
	if processing != 0 {
		m.Processing = max(m.Processing+processing, 0)
		m.processingCountChanged = true
	}
}

func (m *PoolMetrics) snapshot() (queued, processing int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Queued, m.Processing
}

// Shutdown stops the metrics monitor. Slots already handed out stay valid.
func (cm *ConcurrencyManager) Shutdown() {
	cm.once.Do(func() {
		close(cm.shutdown)
	})
}
