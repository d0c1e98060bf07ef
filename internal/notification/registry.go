package notification

import (
	"sort"
	"sync"
	"time"

	"party-status-backend/internal/model"
)

// Registry holds push subscriptions in memory. Subscriptions do not survive
// a restart; devices re-register when they load the board.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]model.PushSubscription
	now  func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string]model.PushSubscription),
		now:  time.Now,
	}
}

// Put creates or replaces the subscription for sub.Endpoint.
func (r *Registry) Put(sub model.PushSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.subs[sub.Endpoint]; ok {
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.CreatedAt = r.now().UTC()
	}
	r.subs[sub.Endpoint] = sub
}

// Get returns the subscription for endpoint.
func (r *Registry) Get(endpoint string) (model.PushSubscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[endpoint]
	return sub, ok
}

// Delete removes the subscription and reports whether it existed.
func (r *Registry) Delete(endpoint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[endpoint]
	delete(r.subs, endpoint)
	return ok
}

// Watching returns the subscriptions interested in section, ordered by endpoint.
func (r *Registry) Watching(section model.Section) []model.PushSubscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.PushSubscription
	for _, sub := range r.subs {
		if sub.Watches(section) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}
