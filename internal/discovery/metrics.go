package discovery

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics счетчики одного запуска, общие для всех задач
type Metrics struct {
	bindings  int64
	sent      int64
	received  int64
	malformed int64

	mu            sync.Mutex
	lastEventTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordBinding() {
	atomic.AddInt64(&m.bindings, 1)
}

func (m *Metrics) RecordSent() {
	atomic.AddInt64(&m.sent, 1)
	m.touch()
}

func (m *Metrics) RecordReceived() {
	atomic.AddInt64(&m.received, 1)
	m.touch()
}

func (m *Metrics) RecordMalformed() {
	atomic.AddInt64(&m.malformed, 1)
	m.touch()
}

func (m *Metrics) touch() {
	m.mu.Lock()
	m.lastEventTime = time.Now()
	m.mu.Unlock()
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.Lock()
	last := m.lastEventTime
	m.mu.Unlock()

	return map[string]interface{}{
		"bindings":        atomic.LoadInt64(&m.bindings),
		"sent":            atomic.LoadInt64(&m.sent),
		"received":        atomic.LoadInt64(&m.received),
		"malformed":       atomic.LoadInt64(&m.malformed),
		"last_event_time": last,
	}
}
