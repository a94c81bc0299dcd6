package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/audit"
	"p9e.in/flota/models"
)

// RegistryOptions carries the audit wiring shared by every session.
type RegistryOptions struct {
	AuditRPC     audit.RPC // nil disables the primary path
	AuditTimeout time.Duration
	ReadScope    audit.ReadScope
}

// Registry maps each signed-in actor to their live aggregation context.
// Sign-in creates the context and runs the bootstrap load; sign-out resets
// the collections and drops the context. There is exactly one context per
// authenticated actor.
type Registry struct {
	mu       sync.Mutex
	stores   Stores
	opts     RegistryOptions
	contexts map[uuid.UUID]*Context
}

// NewRegistry builds an empty registry over the shared stores.
func NewRegistry(stores Stores, opts RegistryOptions) *Registry {
	if opts.AuditTimeout <= 0 {
		opts.AuditTimeout = audit.DefaultTimeout
	}
	if opts.ReadScope == "" {
		opts.ReadScope = audit.ReadScopeBulk
	}
	return &Registry{stores: stores, opts: opts, contexts: make(map[uuid.UUID]*Context)}
}

// SignIn creates (or re-creates) the actor's context, with a fresh audit
// session, and runs the bootstrap load. The user agent seen at sign-in is
// stamped onto every audit entry of the session.
func (r *Registry) SignIn(ctx context.Context, actor models.Actor, userAgent string) (*Context, error) {
	session := audit.NewSession()
	auditor := audit.New(r.opts.AuditRPC, r.stores.AuditLogs, session,
		audit.WithTimeout(r.opts.AuditTimeout),
		audit.WithReadScope(r.opts.ReadScope),
		audit.WithUserAgent(userAgent),
	)
	fc := NewContext(actor, r.stores, auditor, session)
	if err := fc.Bootstrap(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.contexts[actor.ID] = fc
	r.mu.Unlock()
	return fc, nil
}

// Get returns the live context of a signed-in actor.
func (r *Registry) Get(actorID uuid.UUID) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fc, ok := r.contexts[actorID]
	return fc, ok
}

// SignOut resets the actor's collections and forgets the context. Pending
// audit writes are flushed in the background before the logger goes away.
func (r *Registry) SignOut(actorID uuid.UUID) {
	r.mu.Lock()
	fc, ok := r.contexts[actorID]
	delete(r.contexts, actorID)
	r.mu.Unlock()
	if !ok {
		return
	}
	fc.Reset()
	go fc.auditor.Flush()
}
