package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// MySQLStore keeps the workspace document in a single row of the
// workspace_documents table, with a version column for optimistic
// compare-and-swap. The schema:
//
//	CREATE TABLE workspace_documents (
//	    doc_key    VARCHAR(64) PRIMARY KEY,
//	    version    BIGINT UNSIGNED NOT NULL,
//	    body       MEDIUMTEXT NOT NULL,
//	    updated_at DATETIME NOT NULL
//	);
type MySQLStore struct {
	DB *sql.DB
}

// Open connects to MySQL, verifies the connection and returns a MySQLStore.
func Open(user, pass, host, port, name string) (*MySQLStore, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &MySQLStore{DB: db}, nil
}

// Load reads the document row, installing the seed document when no row
// exists yet. A body that fails to parse surfaces as ErrCorrupt.
func (s *MySQLStore) Load(ctx context.Context) (doc *model.Document, version uint64, err error) {
	var body string
	row := s.DB.QueryRowContext(ctx,
		"SELECT version, body FROM workspace_documents WHERE doc_key=? LIMIT 1",
		DocumentKey)
	if err := row.Scan(&version, &body); err != nil {
		if err == sql.ErrNoRows {
			return s.installSeed(ctx)
		}
		return nil, 0, err
	}
	d, err := decode([]byte(body))
	if err != nil {
		return nil, 0, err
	}
	return d, version, nil
}

// Save overwrites the body only when the stored version still matches.
func (s *MySQLStore) Save(ctx context.Context, doc *model.Document, version uint64) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx,
		"UPDATE workspace_documents SET body=?, version=version+1, updated_at=? WHERE doc_key=? AND version=?",
		string(body), time.Now().UTC(), DocumentKey, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// installSeed writes the seed document at version 1. A concurrent insert by
// another process is tolerated: on duplicate key we re-read.
func (s *MySQLStore) installSeed(ctx context.Context) (*model.Document, uint64, error) {
	seed := SeedDocument()
	body, err := json.Marshal(seed)
	if err != nil {
		return nil, 0, err
	}
	_, err = s.DB.ExecContext(ctx,
		"INSERT IGNORE INTO workspace_documents (doc_key, version, body, updated_at) VALUES (?,?,?,?)",
		DocumentKey, 1, string(body), time.Now().UTC())
	if err != nil {
		return nil, 0, err
	}
	var version uint64
	var stored string
	row := s.DB.QueryRowContext(ctx,
		"SELECT version, body FROM workspace_documents WHERE doc_key=? LIMIT 1",
		DocumentKey)
	if err := row.Scan(&version, &stored); err != nil {
		return nil, 0, err
	}
	d, err := decode([]byte(stored))
	if err != nil {
		return nil, 0, err
	}
	return d, version, nil
}
