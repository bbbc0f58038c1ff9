// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/util"
)

var (
	ErrClosed        = errors.New("archive is closed")
	ErrDatabaseError = errors.New("archive database error")
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	session_id   TEXT NOT NULL,
	session_name TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	sender       TEXT NOT NULL,
	content      TEXT NOT NULL,
	folded       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_messages_folded ON messages(folded);
`

// Archive is a searchable index of session transcripts backed by
// SQLite. It is derived state: the JSON session store stays the source
// of truth, and the archive is rebuilt from it on demand, so a stale or
// missing database never loses a conversation.
type Archive struct {
	db     *sql.DB
	folder cases.Caser
}

// Open opens (or creates) the archive database at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids busy errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Archive{db: db, folder: cases.Fold()}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// IndexSession replaces the archived rows for one session with its
// current transcript.
func (a *Archive) IndexSession(ctx context.Context, s *model.Session) error {
	if a.db == nil {
		return ErrClosed
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", s.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (session_id, session_name, seq, sender, content, folded, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for seq, msg := range s.Messages {
		content := msg.Text()
		_, err := stmt.ExecContext(ctx, s.ID, s.Name, seq, string(msg.Sender),
			content, a.folder.String(content), msg.Timestamp)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return tx.Commit()
}

// IndexAll rebuilds the archive from a full session list.
func (a *Archive) IndexAll(ctx context.Context, sessions []*model.Session) error {
	if a.db == nil {
		return ErrClosed
	}
	if _, err := a.db.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	for _, s := range sessions {
		if err := a.IndexSession(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSession drops a session's rows from the archive.
func (a *Archive) RemoveSession(ctx context.Context, sessionID string) error {
	if a.db == nil {
		return ErrClosed
	}
	if _, err := a.db.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Hit is one search result: a message that matched, with enough context
// to open its session.
type Hit struct {
	SessionID   string
	SessionName string
	Seq         int
	Sender      model.Sender
	Snippet     string
}

const snippetWidth = 80

// Search returns messages whose content contains the query, matched
// case-insensitively via Unicode case folding. Results come back in
// session order, capped at limit (0 means a default cap).
func (a *Archive) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if a.db == nil {
		return nil, ErrClosed
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(a.folder.String(query)) + "%"
	rows, err := a.db.QueryContext(ctx,
		`SELECT session_id, session_name, seq, sender, content
		 FROM messages
		 WHERE folded LIKE ? ESCAPE '\'
		 ORDER BY session_name, session_id, seq
		 LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var sender, content string
		if err := rows.Scan(&h.SessionID, &h.SessionName, &h.Seq, &sender, &content); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		h.Sender = model.Sender(sender)
		h.Snippet = util.TruncateWidth(util.CollapseSpace(content), snippetWidth)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if hits == nil {
		hits = []Hit{}
	}
	return hits, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
