package dto

import (
	"time"

	"internlink_backend/internals/features/messaging/conversations/model"

	"github.com/google/uuid"
)

// OpenRequest: company mengisi intern_id, intern mengisi company_id.
type OpenRequest struct {
	InternID  *uuid.UUID `json:"intern_id"`
	CompanyID *uuid.UUID `json:"company_id"`
}

type PostMessageRequest struct {
	Content string `json:"content" validate:"max=5000"`
}

type MessageView struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderType     string    `json:"sender_type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromMessage(m model.MessageModel) MessageView {
	return MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderType:     m.SenderType,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

type Counterpart struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL string    `json:"logo_url,omitempty"`
}

type ConversationView struct {
	ID          uuid.UUID    `json:"id"`
	CompanyID   uuid.UUID    `json:"company_id"`
	InternID    uuid.UUID    `json:"intern_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Counterpart Counterpart  `json:"counterpart"`
	LastMessage *MessageView `json:"last_message"`
}

func FromConversation(c model.ConversationModel) ConversationView {
	return ConversationView{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		InternID:  c.InternID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
