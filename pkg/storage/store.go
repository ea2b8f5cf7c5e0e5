package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rubiojr/medialog/pkg/message"
)

// DefaultTable is the table messages are written to when no table name is
// configured.
const DefaultTable = "logs"

// schemaSQL is the store's compatibility contract: other tools read these
// tables, so the shape must not change.
const schemaSQL = `CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    message TEXT NOT NULL,
    context JSON,
    time TEXT NOT NULL
)`

// tablePattern is the set of table names we are willing to splice into
// schema and statement text. Values never take this path; they always go
// through placeholders.
var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is an embedded sqlite log sink. Concurrent writers serialize
// through sqlite's own locking; busy_timeout keeps short contention from
// surfacing as errors.
type Store struct {
	db    *sql.DB
	path  string
	table string
}

// Open opens (creating if needed) the database at path and ensures the log
// table exists. Schema creation happens here, at setup time, so a
// misconfigured path or table fails loudly before the first message.
func Open(path, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf(schemaSQL, table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}

	return &Store{db: db, path: path, table: table}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Table returns the table messages are written to.
func (s *Store) Table() string { return s.table }

// Insert writes one message as one row. The context is stored as its JSON
// text and the time as the canonical ISO-8601 string.
func (s *Store) Insert(msg message.Message) error {
	ctx := msg.Context()
	if ctx == nil {
		ctx = map[string]interface{}{}
	}
	contextJSON, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("marshaling context for message %s: %w", msg.ID(), err)
	}

	query := fmt.Sprintf("INSERT INTO %s (id, level, message, context, time) VALUES (?, ?, ?, ?, ?)", s.table)
	_, err = s.db.Exec(query,
		msg.ID(),
		msg.Level().String(),
		msg.Text(),
		string(contextJSON),
		msg.Time().Format(message.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting message %s: %w", msg.ID(), err)
	}
	return nil
}

// Row is one stored log record read back from the table.
type Row struct {
	ID      string
	Level   message.Level
	Message string
	Context map[string]interface{}
	Time    time.Time
}

// Recent returns up to limit rows, newest first. A limit <= 0 means no
// limit.
func (s *Store) Recent(limit int) ([]Row, error) {
	query := fmt.Sprintf("SELECT id, level, message, context, time FROM %s ORDER BY time DESC", s.table)
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	var out []Row
	for rows.Next() {
		var r Row
		var level, contextJSON, timeText string
		if err := rows.Scan(&r.ID, &level, &r.Message, &contextJSON, &timeText); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Level = message.Level(level)
		if contextJSON != "" {
			if err := json.Unmarshal([]byte(contextJSON), &r.Context); err != nil {
				return nil, fmt.Errorf("unmarshaling context for row %s: %w", r.ID, err)
			}
		}
		t, err := time.Parse(message.TimeLayout, timeText)
		if err != nil {
			return nil, fmt.Errorf("parsing time for row %s: %w", r.ID, err)
		}
		r.Time = t
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Count returns the number of rows in the log table.
func (s *Store) Count() (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", s.table, err)
	}
	return n, nil
}
