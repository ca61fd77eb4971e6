package auth

import (
	"context"
	"sync"

	"github.com/metrically/metrically-backend/internal/auth/domain"
)

// SessionState is a snapshot of the provider: the current identity (nil
// when signed out) and whether the initial resolution is still pending.
type SessionState struct {
	User    *domain.Identity
	Loading bool
}

// SessionEvent is a push notification of a session change. A nil
// Identity means signed out.
type SessionEvent struct {
	User *domain.Identity
}

// SessionProvider holds process-wide session state {user, loading}. It
// is constructed once per application instance and passed explicitly to
// the components that need it. State starts as {nil, loading}; the
// first of the one-time pull or a push event clears loading, and later
// push events update the user in place.
type SessionProvider struct {
	mu      sync.RWMutex
	user    *domain.Identity
	loading bool

	subMu   sync.Mutex
	subs    map[int]chan SessionState
	nextSub int

	events chan SessionEvent
	done   chan struct{}
	once   sync.Once
}

func NewSessionProvider() *SessionProvider {
	return &SessionProvider{
		loading: true,
		subs:    make(map[int]chan SessionState),
		events:  make(chan SessionEvent, 8),
		done:    make(chan struct{}),
	}
}

// Start resolves the initial session and begins consuming push events.
// pull is the one-time "get current user" call issued concurrently with
// the subscription so the first state is available without waiting for
// a push. A pull error resolves to signed-out rather than failing.
func (p *SessionProvider) Start(ctx context.Context, pull func(context.Context) (*domain.Identity, error)) {
	go p.consume(ctx)

	go func() {
		user, err := pull(ctx)
		if err != nil {
			user = nil
		}
		p.mu.Lock()
		if p.loading {
			p.user = user
			p.loading = false
			p.mu.Unlock()
			p.notify()
			return
		}
		// A push event already resolved the session; the pull result
		// is stale and must not overwrite it.
		p.mu.Unlock()
	}()
}

func (p *SessionProvider) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case ev := <-p.events:
			p.mu.Lock()
			p.user = ev.User
			p.loading = false
			p.mu.Unlock()
			p.notify()
		}
	}
}

// Publish delivers a session-change event (sign-in, sign-out, token
// refresh) to the provider.
func (p *SessionProvider) Publish(ev SessionEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

// Current returns the session snapshot.
func (p *SessionProvider) Current() SessionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return SessionState{User: p.user, Loading: p.loading}
}

// Subscribe registers for state snapshots. The returned cancel func
// unsubscribes; it is safe to call more than once.
func (p *SessionProvider) Subscribe() (<-chan SessionState, func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	id := p.nextSub
	p.nextSub++
	ch := make(chan SessionState, 4)
	p.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			p.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (p *SessionProvider) notify() {
	state := p.Current()
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- state:
		default:
			// Slow subscriber; drop rather than block the provider.
		}
	}
}

// Close tears down the provider and stops event consumption.
func (p *SessionProvider) Close() {
	p.once.Do(func() { close(p.done) })
}
