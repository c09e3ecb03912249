package resilience

import (
	"sync"
	"time"
)

// ProviderHealth is a snapshot of one provider's recent request outcomes.
type ProviderHealth struct {
	Name          string     `json:"name"`
	Successes     int64      `json:"successes"`
	Failures      int64      `json:"failures"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// Registry tracks request outcomes per provider for the ops status endpoint.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*providerRecord
}

type providerRecord struct {
	successes     int64
	failures      int64
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]*providerRecord)}
}

// RecordSuccess notes a successful request for the named provider.
func (r *Registry) RecordSuccess(name string) {
	now := time.Now()
	r.mu.Lock()
	rec := r.record(name)
	rec.successes++
	rec.lastSuccessAt = &now
	r.mu.Unlock()
}

// RecordFailure notes a failed request for the named provider.
func (r *Registry) RecordFailure(name string, err error) {
	now := time.Now()
	r.mu.Lock()
	rec := r.record(name)
	rec.failures++
	rec.lastFailureAt = &now
	if err != nil {
		rec.lastError = err.Error()
	}
	r.mu.Unlock()
}

// Health returns snapshots for all tracked providers.
func (r *Registry) Health() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderHealth, 0, len(r.providers))
	for name, rec := range r.providers {
		out = append(out, ProviderHealth{
			Name:          name,
			Successes:     rec.successes,
			Failures:      rec.failures,
			LastSuccessAt: rec.lastSuccessAt,
			LastFailureAt: rec.lastFailureAt,
			LastError:     rec.lastError,
		})
	}
	return out
}

// record returns the record for name, creating it if needed. Caller holds mu.
func (r *Registry) record(name string) *providerRecord {
	rec, ok := r.providers[name]
	if !ok {
		rec = &providerRecord{}
		r.providers[name] = rec
	}
	return rec
}
