package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/roach88/meetsched/internal/domain"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Schema version tracking (SQLite user_version):
// 1 - persons, meetings, meeting_participants
const currentSchemaVersion = 1

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Tables lists the tables the scheduler requires.
var Tables = []string{"persons", "meetings", "meeting_participants"}

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// Tx is the set of store operations available inside one transaction.
type Tx interface {
	InsertPerson(ctx context.Context, p domain.Person) (int64, error)
	FindPersonByEmail(ctx context.Context, email string) (domain.Person, error)
	FindPersonByName(ctx context.Context, name string) (domain.Person, error)
	// FindPersonsByName resolves names case-insensitively. The result maps
	// domain.NameKey(name) to the person id; unknown names are absent.
	FindPersonsByName(ctx context.Context, names []string) (map[string]int64, error)
	ListPersons(ctx context.Context) ([]domain.Person, error)

	InsertMeeting(ctx context.Context, m domain.Meeting) (int64, error)
	InsertParticipation(ctx context.Context, meetingID, personID int64) error
	CountMeetings(ctx context.Context) (int, error)

	// FindOverlappingBookings returns one row per (meeting, person) where
	// person is one of personIDs and the meeting overlaps [start, end).
	FindOverlappingBookings(ctx context.Context, personIDs []int64, start, end time.Time) ([]domain.Booking, error)

	// FindMeetingsInInterval returns meetings lying entirely within
	// [start, end], ordered by start time.
	FindMeetingsInInterval(ctx context.Context, start, end time.Time) ([]domain.MeetingSummary, error)
}

// Store runs transactions.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*Memory)(nil)
)

// dialect captures what differs between SQL backends.
type dialect struct {
	driver      string
	schema      string
	pragmas     []string
	tableExists string
	positional  bool // $1, $2 ... instead of ?
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driver: DriverSQLite,
		schema: sqliteSchema,
		pragmas: []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		},
		tableExists: `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
	},
	DriverPostgres: {
		driver: DriverPostgres,
		schema: postgresSchema,
		tableExists: `SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = ?`,
		positional: true,
	},
}

// rebind rewrites ? placeholders for dialects that use positional ones.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore is a Store backed by database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the database, applies pragmas (SQLite) and creates the
// schema if needed. Safe to call repeatedly on the same database.
func Open(driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if d.driver == DriverSQLite {
		// SQLite only supports one writer at a time, and pragmas are per
		// connection, so keep exactly one.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	for _, pragma := range d.pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := applySchema(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{db: db, dialect: d, now: time.Now}, nil
}

// OpenSQLite opens a SQLite database file.
func OpenSQLite(path string) (*SQLStore, error) {
	return Open(DriverSQLite, path)
}

func applySchema(db *sql.DB, d dialect) error {
	if _, err := db.Exec(d.schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if d.driver == DriverSQLite {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *SQLStore) Driver() string {
	return s.dialect.driver
}

// CheckTables reports, for each required table, whether it exists.
func (s *SQLStore) CheckTables(ctx context.Context) (map[string]bool, error) {
	result := make(map[string]bool, len(Tables))
	for _, table := range Tables {
		var count int
		if err := s.db.QueryRowContext(ctx, s.dialect.rebind(s.dialect.tableExists), table).Scan(&count); err != nil {
			return nil, fmt.Errorf("check table %s: %w", table, err)
		}
		result[table] = count > 0
	}
	return result, nil
}

// RunInTx runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *SQLStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect, now: s.now}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// sqlTx implements Tx over a *sql.Tx.
type sqlTx struct {
	tx      *sql.Tx
	dialect dialect
	now     func() time.Time
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.rebind(query), args...)
}

func (t *sqlTx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.dialect.rebind(query), args...)
}

func (t *sqlTx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.rebind(query), args...)
}

// toMillis stores a naive time as milliseconds of its wall clock.
func toMillis(value time.Time) int64 {
	return domain.Naive(value).UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation recognizes uniqueness failures from either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
