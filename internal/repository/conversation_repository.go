package repository

import (
	"github.com/chodocu/chodocu-backend/internal/models"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *ConversationRepository) GetByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Participants").First(&conversation, id).Error
	return &conversation, err
}

// FindBetween returns the existing conversation joining exactly these two
// users, if any.
func (r *ConversationRepository) FindBetween(userID, receiverID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Participants").
		Joins("JOIN conversation_participants cp1 ON cp1.conversation_id = conversations.id AND cp1.user_id = ?", userID).
		Joins("JOIN conversation_participants cp2 ON cp2.conversation_id = conversations.id AND cp2.user_id = ?", receiverID).
		First(&conversation).Error
	return &conversation, err
}

func (r *ConversationRepository) ListByUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// ParticipantIDs lists the user ids attached to a conversation.
func (r *ConversationRepository) ParticipantIDs(conversationID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("conversation_participants").
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ConversationRepository) Touch(conversationID uint) error {
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
