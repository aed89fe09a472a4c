package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingDB is a database/sql connector that records every statement and
// answers queries with canned rows.
type recordingDB struct {
	mu       sync.Mutex
	stmts    []recordedStmt
	rows     [][]driver.Value
	affected int64
}

type recordedStmt struct {
	query string
	args  []driver.Value
}

func (d *recordingDB) Connect(context.Context) (driver.Conn, error) { return &recordingConn{db: d}, nil }
func (d *recordingDB) Driver() driver.Driver                        { return recordingDriver{db: d} }

func (d *recordingDB) record(query string, args []driver.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stmts = append(d.stmts, recordedStmt{query: query, args: args})
}

func (d *recordingDB) last(t *testing.T) recordedStmt {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.stmts) == 0 {
		t.Fatal("no statement executed")
	}
	return d.stmts[len(d.stmts)-1]
}

type recordingDriver struct{ db *recordingDB }

func (d recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{db: d.db}, nil }

type recordingConn struct{ db *recordingDB }

func (c *recordingConn) Prepare(query string) (driver.Stmt, error) {
	return &recordingStmt{db: c.db, query: query}, nil
}
func (c *recordingConn) Close() error              { return nil }
func (c *recordingConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type recordingStmt struct {
	db    *recordingDB
	query string
}

func (s *recordingStmt) Close() error  { return nil }
func (s *recordingStmt) NumInput() int { return -1 }

func (s *recordingStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.record(s.query, args)
	return driver.RowsAffected(s.db.affected), nil
}

func (s *recordingStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.record(s.query, args)
	return &recordingRows{rows: s.db.rows}, nil
}

type recordingRows struct {
	rows [][]driver.Value
	next int
}

func (r *recordingRows) Columns() []string { return []string{"slot_value"} }
func (r *recordingRows) Close() error      { return nil }

func (r *recordingRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

var mysqlTestNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newRecordingMySQLStore(t *testing.T) (*MySQLStore, *recordingDB) {
	t.Helper()
	rec := &recordingDB{}
	db := sql.OpenDB(rec)
	t.Cleanup(func() { db.Close() })

	s := NewMySQLStore(db)
	s.now = func() time.Time { return mysqlTestNow }
	return s, rec
}

func assertTimeArg(t *testing.T, name string, got driver.Value, want time.Time) {
	t.Helper()
	tm, ok := got.(time.Time)
	if !ok || !tm.Equal(want) {
		t.Errorf("%s arg = %v, want %v", name, got, want)
	}
}

func TestNewMySQLStore(t *testing.T) {
	repo := NewMySQLStore(nil)
	if repo == nil {
		t.Fatal("NewMySQLStore() = nil, want store")
	}
	if repo.db != nil {
		t.Fatalf("NewMySQLStore(nil) db = %v, want nil", repo.db)
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrSlotNotFound == nil {
		t.Fatal("ErrSlotNotFound = nil")
	}
	if ErrSlotNotFound.Error() != "slot not found" {
		t.Fatalf("ErrSlotNotFound.Error() = %q, want %q", ErrSlotNotFound.Error(), "slot not found")
	}
}

func TestNullExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if v := nullExpiry(now, 0); v.Valid {
		t.Fatalf("nullExpiry(0) Valid = true, want false")
	}

	v := nullExpiry(now, time.Hour)
	if !v.Valid {
		t.Fatal("nullExpiry(1h) Valid = false, want true")
	}
	if !v.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("nullExpiry(1h) Time = %v, want %v", v.Time, now.Add(time.Hour))
	}
}

func TestMySQLStoreGetFiltersExpired(t *testing.T) {
	s, rec := newRecordingMySQLStore(t)
	rec.rows = [][]driver.Value{{"T1"}}

	got, err := s.Get(context.Background(), "client-1", "token")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got != "T1" {
		t.Errorf("Get() = %q, want %q", got, "T1")
	}

	stmt := rec.last(t)
	if !strings.Contains(stmt.query, "expires_at IS NULL OR expires_at > ?") {
		t.Errorf("Get() query = %q, want an expiry filter", stmt.query)
	}
	if len(stmt.args) != 3 || stmt.args[0] != "client-1" || stmt.args[1] != "token" {
		t.Fatalf("Get() args = %v, want [client-1 token now]", stmt.args)
	}
	assertTimeArg(t, "Get() now", stmt.args[2], mysqlTestNow)
}

func TestMySQLStoreGetMissing(t *testing.T) {
	s, _ := newRecordingMySQLStore(t)

	_, err := s.Get(context.Background(), "client-1", "token")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrSlotNotFound)
	}
}

func TestMySQLStoreSetUpserts(t *testing.T) {
	s, rec := newRecordingMySQLStore(t)

	if err := s.Set(context.Background(), "client-1", "token", "T1", 0); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	stmt := rec.last(t)
	if !strings.Contains(stmt.query, "ON DUPLICATE KEY UPDATE slot_value = VALUES(slot_value), expires_at = VALUES(expires_at)") {
		t.Errorf("Set() query = %q, want an upsert replacing value and expiry", stmt.query)
	}
	if len(stmt.args) != 4 {
		t.Fatalf("Set() args = %v, want 4 values", stmt.args)
	}
	if stmt.args[0] != "client-1" || stmt.args[1] != "token" || stmt.args[2] != "T1" {
		t.Errorf("Set() args = %v, want [client-1 token T1 ...]", stmt.args)
	}
	if stmt.args[3] != nil {
		t.Errorf("Set(ttl=0) expiry arg = %v, want NULL", stmt.args[3])
	}

	if err := s.Set(context.Background(), "client-1", "token", "T2", time.Hour); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	assertTimeArg(t, "Set(ttl=1h) expiry", rec.last(t).args[3], mysqlTestNow.Add(time.Hour))
}

func TestMySQLStoreDelete(t *testing.T) {
	s, rec := newRecordingMySQLStore(t)

	if err := s.Delete(context.Background(), "client-1", "user"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	stmt := rec.last(t)
	if !strings.HasPrefix(stmt.query, "DELETE FROM client_slots") {
		t.Errorf("Delete() query = %q, want DELETE FROM client_slots", stmt.query)
	}
	if len(stmt.args) != 2 || stmt.args[0] != "client-1" || stmt.args[1] != "user" {
		t.Errorf("Delete() args = %v, want [client-1 user]", stmt.args)
	}
}

func TestMySQLStorePurgeExpired(t *testing.T) {
	s, rec := newRecordingMySQLStore(t)
	rec.affected = 3

	n, err := s.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired() unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("PurgeExpired() = %d, want 3", n)
	}

	stmt := rec.last(t)
	if !strings.Contains(stmt.query, "expires_at IS NOT NULL AND expires_at <= ?") {
		t.Errorf("PurgeExpired() query = %q, want expired rows only", stmt.query)
	}
	if len(stmt.args) != 1 {
		t.Fatalf("PurgeExpired() args = %v, want [now]", stmt.args)
	}
	assertTimeArg(t, "PurgeExpired() now", stmt.args[0], mysqlTestNow)
}
