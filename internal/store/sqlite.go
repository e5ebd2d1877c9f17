package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/esgis/chatbot/internal/domain"
)

// SQLiteStore implements Store using SQLite. Messages are keyed by
// (conversation_id, ts); the implicit rowid is the stable tie-break for
// messages saved within the same second.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given DSN and runs
// migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			sender TEXT NOT NULL,
			username TEXT,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, ts)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// SaveMessage appends a user message.
func (s *SQLiteStore) SaveMessage(ctx context.Context, chatID int64, username, text string) error {
	return s.insert(ctx, chatID, domain.SenderUser, username, text)
}

// SaveResponse appends a bot message.
func (s *SQLiteStore) SaveResponse(ctx context.Context, chatID int64, text string) error {
	return s.insert(ctx, chatID, domain.SenderBot, "", text)
}

func (s *SQLiteStore) insert(ctx context.Context, chatID int64, sender domain.Sender, username, content string) error {
	var user sql.NullString
	if username != "" {
		user = sql.NullString{String: username, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, conversation_id, ts, sender, username, content)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), conversationID(chatID), time.Now().Unix(), string(sender), user, content)
	if err != nil {
		return fmt.Errorf("%w: insert %s message: %v", ErrStorageUnavailable, sender, err)
	}
	return nil
}

// GetConversation returns all messages for the chat in ascending timestamp
// order.
func (s *SQLiteStore) GetConversation(ctx context.Context, chatID int64) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, ts, sender, username, content
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY ts ASC, rowid ASC`,
		conversationID(chatID))
	if err != nil {
		return nil, fmt.Errorf("%w: query conversation: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg      domain.Message
			sender   string
			username sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.Timestamp, &sender, &username, &msg.Content); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", ErrStorageUnavailable, err)
		}
		msg.ChatID = chatID
		msg.Sender = domain.Sender(sender)
		msg.Username = username.String
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate conversation: %v", ErrStorageUnavailable, err)
	}
	return messages, nil
}

// ResetConversation deletes all messages for the chat. SQLite supports a
// native range delete on the conversation key, so no fetch-then-delete pass
// is needed; the observable contract (idempotent, full-history removal) is
// the same.
func (s *SQLiteStore) ResetConversation(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ?`, conversationID(chatID))
	if err != nil {
		return fmt.Errorf("%w: delete conversation: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func conversationID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
