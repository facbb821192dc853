package endpoint

import (
	"sync"
	"time"

	"github.com/angeloszaimis/health-assistant/internal/environment"
)

const ewmaAlpha = 0.2

// Endpoint is the client-side view of one backend. Safe for concurrent use.
type Endpoint struct {
	base             environment.BaseURL
	mutex            sync.Mutex
	isHealthy        bool
	inFlight         int
	ewmaResponseTime time.Duration
	hasEWMA          bool
	lastChecked      time.Time
}

// New creates an Endpoint for base. It starts healthy so the first request is
// attempted before any health check has run.
func New(base environment.BaseURL) *Endpoint {
	return &Endpoint{
		base:      base,
		isHealthy: true,
	}
}

func (e *Endpoint) BaseURL() environment.BaseURL {
	return e.base
}

// URL returns the absolute URL of a backend resource.
func (e *Endpoint) URL(path string) string {
	return e.base.JoinPath(path)
}

func (e *Endpoint) IsHealthy() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.isHealthy
}

// SetHealthy updates the health status.
// Returns true if the status changed, false if it was already in that state.
func (e *Endpoint) SetHealthy(healthy bool) (changed bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.lastChecked = time.Now()

	if e.isHealthy == healthy {
		return false
	}

	e.isHealthy = healthy
	return true
}

// LastChecked returns when the health status was last set.
func (e *Endpoint) LastChecked() time.Time {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.lastChecked
}

func (e *Endpoint) Begin() {
	e.mutex.Lock()
	e.inFlight++
	e.mutex.Unlock()
}

func (e *Endpoint) End() {
	e.mutex.Lock()
	if e.inFlight > 0 {
		e.inFlight--
	}
	e.mutex.Unlock()
}

func (e *Endpoint) InFlight() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.inFlight
}

// RecordResponse folds the latest request duration into the EWMA.
func (e *Endpoint) RecordResponse(duration time.Duration) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.hasEWMA {
		e.ewmaResponseTime = duration
		e.hasEWMA = true
		return
	}
	//ewma = (1 - α) * ewma + α * latest
	e.ewmaResponseTime = time.Duration((1-ewmaAlpha)*float64(e.ewmaResponseTime) + ewmaAlpha*float64(duration))
}

// EWMATime returns 0 until a response has been recorded.
func (e *Endpoint) EWMATime() time.Duration {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.hasEWMA {
		return 0
	}
	return e.ewmaResponseTime
}
