// Package audit records every CREATE/UPDATE/DELETE (and selected bulk READ)
// against the audit trail. Writes are best-effort and detached: the business
// mutation that triggered an entry never waits on it and never fails because
// of it. Two paths are tried in order — a remote procedure bounded by a hard
// timeout, then a direct insert into the audit table — and a loss on both is
// logged and swallowed.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/mapper"
	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// DefaultTimeout bounds the primary-path call so the fallback always gets a
// chance within the same logical operation.
const DefaultTimeout = 10 * time.Second

// ReadScope controls which READ operations get audited. Bulk-only is the
// default: per-item lookups would flood the trail.
type ReadScope string

const (
	ReadScopeBulk ReadScope = "bulk"
	ReadScopeAll  ReadScope = "all"
	ReadScopeNone ReadScope = "none"
)

// ParseReadScope falls back to bulk on anything unrecognized.
func ParseReadScope(s string) ReadScope {
	switch ReadScope(s) {
	case ReadScopeAll, ReadScopeNone, ReadScopeBulk:
		return ReadScope(s)
	default:
		return ReadScopeBulk
	}
}

// Entry is what a repository hands the logger about one operation.
type Entry struct {
	TableName      string
	Operation      models.AuditOperation
	RecordID       string
	OldValues      models.JSONMap
	NewValues      models.JSONMap
	AdditionalInfo models.JSONMap
}

// RPC is the remote audit-write procedure (primary path).
type RPC interface {
	Call(ctx context.Context, row store.AuditLogRow) error
}

// Logger is the audit recorder. Safe for concurrent use.
type Logger struct {
	rpc       RPC // nil means no primary path configured
	table     store.Table[store.AuditLogRow]
	session   *Session
	userAgent string
	timeout   time.Duration
	readScope ReadScope
	wg        sync.WaitGroup
}

// Option tweaks a Logger at construction.
type Option func(*Logger)

// WithTimeout overrides the primary-path hard timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Logger) { l.timeout = d }
}

// WithReadScope sets which READ operations are recorded.
func WithReadScope(s ReadScope) Option {
	return func(l *Logger) { l.readScope = s }
}

// WithUserAgent sets the client identification stamped on entries.
func WithUserAgent(ua string) Option {
	return func(l *Logger) { l.userAgent = ua }
}

// New builds a Logger. rpc may be nil, in which case every entry goes
// straight to the fallback table insert.
func New(rpc RPC, table store.Table[store.AuditLogRow], session *Session, opts ...Option) *Logger {
	l := &Logger{
		rpc:       rpc,
		table:     table,
		session:   session,
		timeout:   DefaultTimeout,
		readScope: ReadScopeBulk,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ShouldAuditRead reports whether a read of the given granularity is in
// scope for the trail.
func (l *Logger) ShouldAuditRead(bulk bool) bool {
	switch l.readScope {
	case ReadScopeNone:
		return false
	case ReadScopeAll:
		return true
	default:
		return bulk
	}
}

// Record accepts one entry for the trail. Returns false (and writes
// nothing) without an attributable actor; otherwise the write proceeds on a
// detached goroutine with its own deadline and Record returns true
// immediately.
func (l *Logger) Record(actor models.Actor, e Entry) bool {
	if actor.ID == uuid.Nil {
		return false
	}
	entry := l.assemble(actor, e)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.write(entry)
	}()
	return true
}

// Flush blocks until every accepted entry has finished both write attempts.
// Used at shutdown and by tests; business code never calls it.
func (l *Logger) Flush() {
	l.wg.Wait()
}

// Trail lists the actor's audit entries, newest first.
func (l *Logger) Trail(ctx context.Context, actor models.Actor) ([]models.AuditLog, error) {
	rows, err := l.table.Select(ctx, store.Filter{OwnerID: actor.ID})
	if err != nil {
		return nil, err
	}
	return mapper.AuditLogsFromRows(rows), nil
}

func (l *Logger) assemble(actor models.Actor, e Entry) models.AuditLog {
	newValues := e.NewValues
	if len(e.AdditionalInfo) > 0 {
		merged := make(models.JSONMap, len(newValues)+1)
		for k, v := range newValues {
			merged[k] = v
		}
		merged["additionalInfo"] = map[string]interface{}(e.AdditionalInfo)
		newValues = merged
	}
	return models.AuditLog{
		UserID:    actor.ID,
		TableName: e.TableName,
		Operation: e.Operation,
		RecordID:  e.RecordID,
		OldValues: e.OldValues,
		NewValues: newValues,
		SessionID: l.session.ID(),
		UserAgent: l.userAgent,
	}
}

// write runs the two-path state machine: primary with hard timeout, then
// fallback, then give up. Failures never propagate.
func (l *Logger) write(entry models.AuditLog) {
	row := mapper.AuditLogToRow(entry)

	if l.rpc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		err := l.rpc.Call(ctx, row)
		cancel()
		if err == nil {
			return
		}
		log.Printf("audit: primary path failed for %s %s: %v", entry.Operation, entry.TableName, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if _, err := l.table.Insert(ctx, row); err != nil {
		log.Printf("audit: fallback path failed, entry lost (%s %s record=%s): %v",
			entry.Operation, entry.TableName, entry.RecordID, err)
	}
}
