package model

import "time"

// Chat is a conversation tied to a property.  One is created together with
// the property, with the owner as its first participant.
type Chat struct {
    ID         string    `json:"id"`
    PropertyID string    `json:"propertyId"`
    CreatedAt  time.Time `json:"createdAt"`
}

// ChatParticipant links a user to a chat.  Messages reference the
// participant row, not the user directly.
type ChatParticipant struct {
    ID        string    `json:"id"`
    ChatID    string    `json:"chatId"`
    UserID    string    `json:"userId"`
    CreatedAt time.Time `json:"createdAt"`
}

// Message is a single chat message sent by a participant.
type Message struct {
    ID            string    `json:"id"`
    ChatID        string    `json:"chatId"`
    ParticipantID string    `json:"participantId"`
    Message       string    `json:"message"`
    CreatedAt     time.Time `json:"createdAt"`
    UpdatedAt     time.Time `json:"updatedAt"`
}
