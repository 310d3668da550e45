package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// ChatMessage is the re-shaped message returned by the chat endpoints: the
// sender is exposed as the participant's user id rather than the internal
// participant row id.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	SenderID  string    `json:"senderId"`
	ChatID    string    `json:"chatId"`
}

// ChatDetail couples a chat with its participant user ids and messages.
type ChatDetail struct {
	model.Chat
	ParticipantUserIDs []string
	Messages           []ChatMessage
}

// ChatRepo encapsulates chat, participant and message queries.
type ChatRepo struct{ DB *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

// Create inserts a chat for a property together with its first participants
// (one chat_participants row per user id), in a single transaction.
func (r *ChatRepo) Create(ctx context.Context, propertyID string, participantUserIDs ...string) (_ *model.Chat, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	chat := &model.Chat{ID: uuid.NewString(), PropertyID: propertyID}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO chats (id, property_id) VALUES (?,?)", chat.ID, chat.PropertyID); err != nil {
		return nil, err
	}
	for _, userID := range participantUserIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO chat_participants (id, chat_id, user_id) VALUES (?,?,?)",
			uuid.NewString(), chat.ID, userID); err != nil {
			return nil, err
		}
	}
	err = tx.QueryRowContext(ctx,
		"SELECT created_at FROM chats WHERE id=?", chat.ID).Scan(&chat.CreatedAt)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// GetWithMessages fetches a chat with its participant user ids and all
// messages in chronological order.
func (r *ChatRepo) GetWithMessages(ctx context.Context, id string) (*ChatDetail, error) {
	var d ChatDetail
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, property_id, created_at FROM chats WHERE id=? LIMIT 1", id).
		Scan(&d.ID, &d.PropertyID, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM chat_participants WHERE chat_id=?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		d.ParticipantUserIDs = append(d.ParticipantUserIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	msgRows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.message, m.created_at, m.updated_at, cp.user_id, m.chat_id
		 FROM messages m
		 JOIN chat_participants cp ON cp.id = m.participant_id
		 WHERE m.chat_id=? ORDER BY m.created_at`, id)
	if err != nil {
		return nil, err
	}
	defer msgRows.Close()
	d.Messages = []ChatMessage{}
	for msgRows.Next() {
		var m ChatMessage
		if err := msgRows.Scan(&m.ID, &m.Text, &m.CreatedAt, &m.UpdatedAt, &m.SenderID, &m.ChatID); err != nil {
			return nil, err
		}
		d.Messages = append(d.Messages, m)
	}
	return &d, msgRows.Err()
}

// ListByProperty returns all chats attached to a property.
func (r *ChatRepo) ListByProperty(ctx context.Context, propertyID string) ([]*model.Chat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, property_id, created_at FROM chats WHERE property_id=? ORDER BY created_at", propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Chat
	for rows.Next() {
		c := new(model.Chat)
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListByGuest returns the chats whose participant list contains the user
// behind the given guest profile.
func (r *ChatRepo) ListByGuest(ctx context.Context, guestID string) ([]*model.Chat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.property_id, c.created_at
		 FROM chats c
		 JOIN chat_participants cp ON cp.chat_id = c.id
		 JOIN guests g ON g.user_id = cp.user_id
		 WHERE g.id=? ORDER BY c.created_at`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Chat
	for rows.Next() {
		c := new(model.Chat)
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddMessage appends a message to a chat on behalf of a user.  The user
// must already be a participant; otherwise ErrNotParticipant is returned.
func (r *ChatRepo) AddMessage(ctx context.Context, chatID, userID, text string) (*ChatMessage, error) {
	var participantID string
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM chat_participants WHERE chat_id=? AND user_id=? LIMIT 1",
		chatID, userID).Scan(&participantID)
	if errors.Is(err, sql.ErrNoRows) {
		// Tell a foreign user apart from a chat that does not exist at all.
		var one int
		err = r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM chats WHERE id=? LIMIT 1", chatID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrNotParticipant
	}
	if err != nil {
		return nil, err
	}

	m := &ChatMessage{ID: uuid.NewString(), Text: text, SenderID: userID, ChatID: chatID}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (id, chat_id, participant_id, message) VALUES (?,?,?,?)",
		m.ID, chatID, participantID, text); err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM messages WHERE id=?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
