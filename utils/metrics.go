package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики предметной области
	AccountsCreated     int64
	TransactionsCreated int64
	LastOperationTime   time.Time

	// Метрики ошибок
	ErrorCount     int64
	LastErrorTime  time.Time
	ErrorTypes     map[string]int64
	CriticalErrors int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics()
	})
	return metrics
}

// NewMetrics создает пустой набор метрик
func NewMetrics() *Metrics {
	return &Metrics{
		ErrorTypes: make(map[string]int64),
	}
}

// RecordRequest записывает метрики запроса. Ответы со статусом 5xx считаются неуспешными
func (m *Metrics) RecordRequest(duration time.Duration, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if status >= 500 {
		m.FailedRequests++
	}
}

// RecordAccountCreated увеличивает счетчик созданных счетов
func (m *Metrics) RecordAccountCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AccountsCreated++
	m.LastOperationTime = time.Now()
}

// RecordTransactionCreated увеличивает счетчик созданных транзакций
func (m *Metrics) RecordTransactionCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TransactionsCreated++
	m.LastOperationTime = time.Now()
}

// RecordError записывает метрики ошибки по ее типу
func (m *Metrics) RecordError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordErrorLocked(errorType)
}

// RecordCriticalError записывает метрики критической ошибки
func (m *Metrics) RecordCriticalError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CriticalErrors++
	m.recordErrorLocked(errorType)
}

// recordErrorLocked вызывается только под m.mu
func (m *Metrics) recordErrorLocked(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":       m.TotalRequests,
		"failed_requests":      m.FailedRequests,
		"average_latency_ms":   m.AverageLatency.Milliseconds(),
		"accounts_created":     m.AccountsCreated,
		"transactions_created": m.TransactionsCreated,
		"error_count":          m.ErrorCount,
		"critical_errors":      m.CriticalErrors,
		"last_error_time":      m.LastErrorTime,
		"error_types":          errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.LastRequestTime = time.Time{}
	m.AccountsCreated = 0
	m.TransactionsCreated = 0
	m.LastOperationTime = time.Time{}
	m.ErrorCount = 0
	m.LastErrorTime = time.Time{}
	m.CriticalErrors = 0
	m.ErrorTypes = make(map[string]int64)
}
