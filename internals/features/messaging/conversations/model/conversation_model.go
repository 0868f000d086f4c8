package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SenderCompany = "company"
	SenderIntern  = "intern"
)

// ConversationModel sengaja tidak punya FK ke internships/applications:
// percakapan harus bertahan walau opportunity dihapus.
type ConversationModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_conversation_pair,priority:1" json:"company_id"`
	InternID  uuid.UUID `gorm:"column:intern_id;type:uuid;not null;uniqueIndex:uq_conversation_pair,priority:2;index" json:"intern_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ConversationModel) TableName() string { return "conversations" }

func (m *ConversationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type MessageModel struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;not null;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	SenderType     string    `gorm:"column:sender_type;size:20;not null" json:"sender_type"`
	Content        string    `gorm:"column:content;not null" json:"content"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;index:idx_messages_conversation_created,priority:2" json:"created_at"`

	Conversation *ConversationModel `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MessageModel) TableName() string { return "messages" }

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
