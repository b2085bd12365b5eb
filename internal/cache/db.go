package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	_ "modernc.org/sqlite"
)

// Entry is a stored HTTP response
type Entry struct {
	Key        string
	URL        string
	StatusCode int
	Header     map[string][]string
	Body       []byte
	Size       int
	CreatedAt  time.Time
}

// DB wraps the cache database connection
type DB struct {
	conn *sql.DB
}

// Open opens the cache database and initializes the schema
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS http_responses (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		header TEXT NOT NULL,
		body BLOB NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_http_responses_created_at ON http_responses(created_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Put stores a response, replacing any previous entry with the same key
func (db *DB) Put(e *Entry) error {
	header, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	body := e.Body
	if body == nil {
		body = []byte{}
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
	INSERT OR REPLACE INTO http_responses (key, url, status_code, header, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = db.conn.Exec(query, e.Key, e.URL, e.StatusCode, string(header), body, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting cache entry: %w", err)
	}
	return nil
}

// Get retrieves a response by key. It returns nil when no entry exists.
func (db *DB) Get(key string) (*Entry, error) {
	query := `
	SELECT key, url, status_code, header, body, created_at
	FROM http_responses
	WHERE key = ?
	`

	e, err := scanEntry(db.conn.QueryRow(query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache entry: %w", err)
	}
	return e, nil
}

// List returns every stored entry, newest first. Bodies are not loaded.
func (db *DB) List() ([]Entry, error) {
	query := `
	SELECT key, url, status_code, header, length(body), created_at
	FROM http_responses
	ORDER BY created_at DESC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying cache entries: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		var header, createdAt string
		if err := rows.Scan(&e.Key, &e.URL, &e.StatusCode, &header, &e.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Delete removes a single entry
func (db *DB) Delete(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM http_responses WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed
func (db *DB) Clear() (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM http_responses`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var header, createdAt string
	if err := row.Scan(&e.Key, &e.URL, &e.StatusCode, &header, &e.Body, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(header), &e.Header); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	e.Size = len(e.Body)

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &e, nil
}
