package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/citelens/internal/domain"
)

// SessionRepository handles session persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at)
		VALUES (?, ?, ?)
	`, session.ID, session.CreatedAt, session.UpdatedAt)

	return err
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.QueryRow(`
		SELECT s.id, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		FROM sessions s WHERE s.id = ?
	`, id).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt, &session.MessageCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// List returns sessions, most recently updated first
func (r *SessionRepository) List(limit, offset int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT s.id, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		FROM sessions s
		ORDER BY s.updated_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s := &domain.Session{}
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.MessageCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Update updates a session's updated_at timestamp
func (r *SessionRepository) Update(id string) error {
	_, err := r.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// Delete removes a session and its messages
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateMessage appends a message to its session
func (r *SessionRepository) CreateMessage(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	citationsJSON, err := marshalNullable(message.Citations, len(message.Citations) > 0)
	if err != nil {
		return fmt.Errorf("marshal citations: %w", err)
	}
	contentsJSON, err := marshalNullable(message.CitationContents, len(message.CitationContents) > 0)
	if err != nil {
		return fmt.Errorf("marshal citation contents: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO messages (id, session_id, seq, role, content, citations, citation_contents, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE session_id = ?), ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.SessionID, message.Role, message.Content,
		citationsJSON, contentsJSON, message.CreatedAt)

	return err
}

// GetMessages retrieves all messages for a session in conversation order
func (r *SessionRepository) GetMessages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, role, content, citations, citation_contents, created_at
		FROM messages WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// GetMessage retrieves one message of a session
func (r *SessionRepository) GetMessage(sessionID, messageID string) (*domain.Message, error) {
	row := r.db.QueryRow(`
		SELECT id, session_id, role, content, citations, citation_contents, created_at
		FROM messages WHERE session_id = ? AND id = ?
	`, sessionID, messageID)

	message, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return message, err
}

// CountSessions returns the number of sessions
func (r *SessionRepository) CountSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}

// CountChats returns the total number of user messages (chats)
func (r *SessionRepository) CountChats() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE role = 'user'`).Scan(&count)
	return count, err
}

// CountAnnotated returns the number of assistant messages carrying at least
// one annotated citation
func (r *SessionRepository) CountAnnotated() (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE role = 'assistant' AND citation_contents IS NOT NULL
	`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(s rowScanner) (*domain.Message, error) {
	message := &domain.Message{}
	var citationsJSON, contentsJSON sql.NullString

	if err := s.Scan(&message.ID, &message.SessionID, &message.Role,
		&message.Content, &citationsJSON, &contentsJSON, &message.CreatedAt); err != nil {
		return nil, err
	}

	if citationsJSON.Valid && citationsJSON.String != "" {
		if err := json.Unmarshal([]byte(citationsJSON.String), &message.Citations); err != nil {
			return nil, fmt.Errorf("decode citations of message %s: %w", message.ID, err)
		}
	}
	if contentsJSON.Valid && contentsJSON.String != "" {
		if err := json.Unmarshal([]byte(contentsJSON.String), &message.CitationContents); err != nil {
			return nil, fmt.Errorf("decode citation contents of message %s: %w", message.ID, err)
		}
	}
	return message, nil
}

func marshalNullable(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
