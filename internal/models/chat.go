package models

import "time"

type Conversation struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	Participants []User    `json:"participants,omitempty" gorm:"many2many:conversation_participants;"`
	Messages     []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	Sender         *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	IsRead         bool      `json:"is_read" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateConversationRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

type SendMessageRequest struct {
	ConversationID uint   `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
}

// ConversationSummary is the list view of a conversation: the other
// participants and the most recent message.
type ConversationSummary struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	IsActive    bool         `json:"is_active"`
	Receivers   []PublicUser `json:"receivers"`
	LastMessage *MessageView `json:"last_message,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type MessageView struct {
	ID             uint       `json:"id"`
	ConversationID uint       `json:"conversation_id"`
	Content        string     `json:"content"`
	IsRead         bool       `json:"is_read"`
	Sender         PublicUser `json:"sender"`
	CreatedAt      time.Time  `json:"created_at"`
}
