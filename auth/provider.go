package auth

import (
	"context"
	"sync"

	"trendmoni/models"
)

// AuthHandler receives the current identity after every change, or nil once
// the session is signed out.
type AuthHandler func(*Identity)

type subscriber struct {
	id      int
	handler AuthHandler
}

// Provider holds the identity state of a single client session. It replaces
// ambient auth singletons: construct one per session and pass it to the
// components that need the identity.
type Provider struct {
	authority *Authority

	mu          sync.Mutex
	current     *Identity
	token       string
	nextSubID   int
	subscribers []subscriber
}

// NewProvider creates a signed-out Provider backed by authority.
func NewProvider(authority *Authority) *Provider {
	return &Provider{authority: authority}
}

// SignInAnonymous starts a session under a freshly minted anonymous identity.
func (p *Provider) SignInAnonymous(ctx context.Context) (Identity, error) {
	if err := ready(ctx, "sign-in-anonymous"); err != nil {
		return Identity{}, err
	}
	id := p.authority.NewAnonymous()
	token, err := p.authority.IssueToken(id)
	if err != nil {
		return Identity{}, err
	}
	p.setIdentity(&id, token)
	return id, nil
}

// SignInWithToken starts a session from a previously issued token.
func (p *Provider) SignInWithToken(ctx context.Context, token string) (Identity, error) {
	if err := ready(ctx, "sign-in-token"); err != nil {
		return Identity{}, err
	}
	id, err := p.authority.VerifyToken(token)
	if err != nil {
		return Identity{}, err
	}
	p.setIdentity(&id, token)
	return id, nil
}

// SignInWithPassword starts a session for a registered email/password pair.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (Identity, error) {
	if err := ready(ctx, "sign-in-password"); err != nil {
		return Identity{}, err
	}
	id, err := p.authority.Authenticate(email, password)
	if err != nil {
		return Identity{}, err
	}
	return p.signIn(id)
}

// SignUpWithPassword registers a credential and signs the session in with it.
func (p *Provider) SignUpWithPassword(ctx context.Context, email, password string) (Identity, error) {
	if err := ready(ctx, "sign-up"); err != nil {
		return Identity{}, err
	}
	id, err := p.authority.Register(email, password)
	if err != nil {
		return Identity{}, err
	}
	return p.signIn(id)
}

// SignOut clears the session identity.
func (p *Provider) SignOut(ctx context.Context) error {
	if err := ready(ctx, "sign-out"); err != nil {
		return err
	}
	p.setIdentity(nil, "")
	return nil
}

// Current returns the signed-in identity, if any.
func (p *Provider) Current() (Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Identity{}, false
	}
	return *p.current, true
}

// Token returns the token backing the current session, or "".
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// OnAuthChange registers handler and immediately delivers the current state
// to it. Afterwards it receives exactly one call per identity change. The
// returned function unsubscribes; calling it more than once is harmless.
func (p *Provider) OnAuthChange(handler AuthHandler) (unsubscribe func()) {
	p.mu.Lock()
	p.nextSubID++
	subID := p.nextSubID
	p.subscribers = append(p.subscribers, subscriber{id: subID, handler: handler})
	current := copyIdentity(p.current)
	p.mu.Unlock()

	handler(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, s := range p.subscribers {
				if s.id == subID {
					p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
					break
				}
			}
		})
	}
}

func (p *Provider) signIn(id Identity) (Identity, error) {
	token, err := p.authority.IssueToken(id)
	if err != nil {
		return Identity{}, err
	}
	p.setIdentity(&id, token)
	return id, nil
}

// setIdentity swaps the session state and notifies subscribers outside the
// lock. Re-asserting the same identity is not a change.
func (p *Provider) setIdentity(id *Identity, token string) {
	p.mu.Lock()
	changed := !sameIdentity(p.current, id)
	p.current = copyIdentity(id)
	p.token = token
	var handlers []AuthHandler
	if changed {
		handlers = make([]AuthHandler, 0, len(p.subscribers))
		for _, s := range p.subscribers {
			handlers = append(handlers, s.handler)
		}
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(copyIdentity(id))
	}
}

func ready(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return &models.AuthError{Op: op, Reason: "not ready", Err: err}
	}
	return nil
}

func sameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
