package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ready4uni/advisor-go/internal/chat"
	"github.com/ready4uni/advisor-go/internal/router"
)

// SaveTurn records one completed exchange: the session row is upserted and
// both sides of the conversation are appended atomically.
func (db *DB) SaveTurn(ctx context.Context, turn chat.Turn) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = COALESCE(NULLIF(excluded.user_id, ''), sessions.user_id),
			updated_at = excluded.updated_at
	`, turn.SessionID, turn.UserID, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	insert := `
		INSERT INTO messages (session_id, role, content, intent, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insert, turn.SessionID, "user", turn.UserMessage, turn.Intent, now); err != nil {
		return fmt.Errorf("failed to save user message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, turn.SessionID, "assistant", turn.AssistantMessage, turn.Intent, now); err != nil {
		return fmt.Errorf("failed to save assistant message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}
	return nil
}

// RecentMessages returns the last limit messages of a session in
// chronological order.
func (db *DB) RecentMessages(ctx context.Context, sessionID string, limit int) ([]router.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT role, content FROM messages
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var newestFirst []router.Message
	for rows.Next() {
		var m router.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	messages := make([]router.Message, len(newestFirst))
	for i, m := range newestFirst {
		messages[len(newestFirst)-1-i] = m
	}
	return messages, nil
}

// SessionCount reports how many sessions exist, for health reporting.
func (db *DB) SessionCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// PruneSessions deletes sessions (and their messages, via cascade) not
// updated since cutoff. Returns the number of sessions removed.
func (db *DB) PruneSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned sessions: %w", err)
	}
	return removed, nil
}
