package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

type fakeRPC struct {
	mu    sync.Mutex
	err   error
	calls []store.AuditLogRow
}

func (f *fakeRPC) Call(ctx context.Context, row store.AuditLogRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, row)
	return f.err
}

func (f *fakeRPC) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newAuditTable() *store.MemoryTable[store.AuditLogRow, *store.AuditLogRow] {
	return store.NewMemoryTable[store.AuditLogRow, *store.AuditLogRow]()
}

func testActor() models.Actor {
	return models.Actor{ID: uuid.New(), Email: "driver@example.com"}
}

func TestRecordRefusesAnonymousActor(t *testing.T) {
	rpc := &fakeRPC{}
	l := New(rpc, newAuditTable(), NewSession())
	if l.Record(models.Actor{}, Entry{TableName: "vehicles", Operation: models.AuditCreate}) {
		t.Fatal("entries without an attributable actor must be refused")
	}
	l.Flush()
	if rpc.count() != 0 {
		t.Fatal("refused entry must not reach the primary path")
	}
}

func TestRecordPrimaryPathWins(t *testing.T) {
	rpc := &fakeRPC{}
	table := newAuditTable()
	l := New(rpc, table, NewSession(), WithUserAgent("unit-test"))
	actor := testActor()

	if !l.Record(actor, Entry{TableName: "vehicles", Operation: models.AuditCreate, RecordID: uuid.NewString()}) {
		t.Fatal("entry should be accepted")
	}
	l.Flush()
	if rpc.count() != 1 {
		t.Fatalf("primary path called %d times, want 1", rpc.count())
	}
	if table.Len() != 0 {
		t.Fatal("fallback must stay untouched when the primary succeeds")
	}
}

func TestRecordFallsBackWhenPrimaryFails(t *testing.T) {
	rpc := &fakeRPC{err: errors.New("rpc down")}
	table := newAuditTable()
	actor := testActor()
	l := New(rpc, table, NewSession())

	l.Record(actor, Entry{TableName: "trips", Operation: models.AuditDelete, RecordID: uuid.NewString()})
	l.Flush()

	if rpc.count() != 1 {
		t.Fatalf("primary attempted %d times, want 1", rpc.count())
	}
	if table.Len() != 1 {
		t.Fatalf("fallback insert count = %d, want 1", table.Len())
	}
	row := table.All()[0]
	if row.TableNm != "trips" || row.Operation != string(models.AuditDelete) {
		t.Errorf("fallback row mangled: %+v", row)
	}
	if row.UserID != actor.ID.String() || row.OwnerID != actor.ID.String() {
		t.Errorf("fallback row not scoped to actor: %+v", row)
	}
}

func TestRecordSwallowsDoubleFailure(t *testing.T) {
	rpc := &fakeRPC{err: errors.New("rpc down")}
	table := newAuditTable()
	table.FailWith = errors.New("db down")
	l := New(rpc, table, NewSession())

	// the business operation must see an accepted entry either way
	if !l.Record(testActor(), Entry{TableName: "expenses", Operation: models.AuditUpdate}) {
		t.Fatal("double failure must still be accepted and swallowed")
	}
	l.Flush()
}

func TestRecordWithoutPrimaryGoesStraightToTable(t *testing.T) {
	table := newAuditTable()
	l := New(nil, table, NewSession())
	l.Record(testActor(), Entry{TableName: "tolls", Operation: models.AuditCreate})
	l.Flush()
	if table.Len() != 1 {
		t.Fatalf("expected direct table insert, got %d rows", table.Len())
	}
}

func TestRecordNeverBlocksOnSlowPrimary(t *testing.T) {
	slow := &blockingRPC{release: make(chan struct{})}
	l := New(slow, newAuditTable(), NewSession(), WithTimeout(50*time.Millisecond))

	start := time.Now()
	l.Record(testActor(), Entry{TableName: "vehicles", Operation: models.AuditCreate})
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Fatalf("Record blocked for %v, must return immediately", elapsed)
	}
	close(slow.release)
	l.Flush()
}

type blockingRPC struct {
	release chan struct{}
}

func (b *blockingRPC) Call(ctx context.Context, row store.AuditLogRow) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.release:
		return errors.New("released")
	}
}

func TestEntriesCarrySessionAndAgent(t *testing.T) {
	table := newAuditTable()
	session := NewSession()
	l := New(nil, table, session, WithUserAgent("flota-app/2.1"))
	actor := testActor()

	l.Record(actor, Entry{TableName: "vehicles", Operation: models.AuditCreate})
	l.Record(actor, Entry{TableName: "trips", Operation: models.AuditCreate})
	l.Flush()

	rows := table.All()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SessionID == "" || rows[0].SessionID != rows[1].SessionID {
		t.Fatalf("entries of one session must share the session id: %q vs %q", rows[0].SessionID, rows[1].SessionID)
	}
	if rows[0].SessionID != session.ID() {
		t.Errorf("session id mismatch: row=%q session=%q", rows[0].SessionID, session.ID())
	}
	if rows[0].UserAgent != "flota-app/2.1" {
		t.Errorf("user agent not stamped: %q", rows[0].UserAgent)
	}
}

func TestSessionResetRotatesID(t *testing.T) {
	s := NewSession()
	first := s.ID()
	if first != s.ID() {
		t.Fatal("session id must be stable until reset")
	}
	s.Reset()
	if s.ID() == first {
		t.Fatal("reset must produce a fresh session id")
	}
}

func TestAdditionalInfoMergedIntoNewValues(t *testing.T) {
	table := newAuditTable()
	l := New(nil, table, NewSession())
	l.Record(testActor(), Entry{
		TableName:      "vehicles",
		Operation:      models.AuditRead,
		NewValues:      models.JSONMap{"count": float64(3)},
		AdditionalInfo: models.JSONMap{"scope": "load_all"},
	})
	l.Flush()

	entries, err := l.Trail(context.Background(), models.Actor{ID: uuid.MustParse(table.All()[0].UserID)})
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	info, ok := entries[0].NewValues["additionalInfo"].(map[string]interface{})
	if !ok {
		t.Fatalf("additionalInfo not merged: %v", entries[0].NewValues)
	}
	if info["scope"] != "load_all" {
		t.Errorf("additionalInfo content lost: %v", info)
	}
	if entries[0].NewValues["count"] != float64(3) {
		t.Errorf("original new values lost: %v", entries[0].NewValues)
	}
}

func TestShouldAuditRead(t *testing.T) {
	tests := []struct {
		scope    ReadScope
		bulk     bool
		expected bool
	}{
		{ReadScopeBulk, true, true},
		{ReadScopeBulk, false, false},
		{ReadScopeAll, true, true},
		{ReadScopeAll, false, true},
		{ReadScopeNone, true, false},
		{ReadScopeNone, false, false},
	}
	for _, tt := range tests {
		l := New(nil, newAuditTable(), NewSession(), WithReadScope(tt.scope))
		if got := l.ShouldAuditRead(tt.bulk); got != tt.expected {
			t.Errorf("scope %s bulk=%v: got %v, want %v", tt.scope, tt.bulk, got, tt.expected)
		}
	}
}

func TestParseReadScope(t *testing.T) {
	tests := []struct {
		in   string
		want ReadScope
	}{
		{"bulk", ReadScopeBulk},
		{"all", ReadScopeAll},
		{"none", ReadScopeNone},
		{"", ReadScopeBulk},
		{"garbage", ReadScopeBulk},
	}
	for _, tt := range tests {
		if got := ParseReadScope(tt.in); got != tt.want {
			t.Errorf("ParseReadScope(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
