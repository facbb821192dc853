package metrics

import (
	"sort"
	"sync"
	"time"
)

const (
	maxSamples   = 1000
	maxLanguages = 32

	// OtherLanguage counts requests once maxLanguages distinct codes are seen.
	OtherLanguage = "other"
)

type Metrics struct {
	mutex         sync.RWMutex
	requests      int64
	languages     map[string]int64
	intents       map[string]int64
	fallbacks     int64
	responseTimes []time.Duration
	statusCodes   map[int]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64            `json:"total_requests"`
	Uptime        time.Duration    `json:"uptime"`
	Languages     map[string]int64 `json:"languages"`
	Intents       map[string]int64 `json:"intents"`
	AIFallbacks   int64            `json:"ai_fallbacks"`
	AvgResponse   time.Duration    `json:"avg_response"`
	P50Response   time.Duration    `json:"p50_response"`
	P95Response   time.Duration    `json:"p95_response"`
	P99Response   time.Duration    `json:"p99_response"`
	StatusCodes   map[int]int64    `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(lang string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests++
	if lang == "" {
		return
	}
	if _, ok := m.languages[lang]; !ok && len(m.languages) >= maxLanguages {
		lang = OtherLanguage
	}
	m.languages[lang]++
}

func (m *Metrics) RecordIntent(intent string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.intents[intent]++
}

func (m *Metrics) RecordFallback() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.fallbacks++
}

func (m *Metrics) RecordResponse(duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > maxSamples {
		m.responseTimes = m.responseTimes[1:]
	}

	m.statusCodes[statusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalRequests: m.requests,
		Uptime:        time.Since(m.startTime),
		Languages:     copyCounts(m.languages),
		Intents:       copyCounts(m.intents),
		AIFallbacks:   m.fallbacks,
		StatusCodes:   make(map[int]int64, len(m.statusCodes)),
	}
	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}

	if len(m.responseTimes) > 0 {
		sorted := make([]time.Duration, len(m.responseTimes))
		copy(sorted, m.responseTimes)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.AvgResponse = average(sorted)
		snap.P50Response = percentile(sorted, 0.50)
		snap.P95Response = percentile(sorted, 0.95)
		snap.P99Response = percentile(sorted, 0.99)
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		languages:   make(map[string]int64),
		intents:     make(map[string]int64),
		statusCodes: make(map[int]int64),
		startTime:   time.Now(),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
