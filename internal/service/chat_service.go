package service

import (
	"errors"
	"fmt"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChatService struct {
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	userRepo         *repository.UserRepository
	log              *zap.Logger
}

func NewChatService(
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	log *zap.Logger,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		log:              log,
	}
}

// StartConversation returns the existing conversation between the two users
// or creates one.
func (s *ChatService) StartConversation(userID, receiverID uint) (*models.Conversation, error) {
	if userID == receiverID {
		return nil, fmt.Errorf("cannot start a conversation with yourself: %w", ErrInvalidState)
	}

	receiver, err := s.userRepo.GetByID(receiverID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", receiverID, ErrNotFound)
	}

	existing, err := s.conversationRepo.FindBetween(userID, receiverID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	conversation := &models.Conversation{
		IsActive:     true,
		Participants: []models.User{*sender, *receiver},
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}

	s.log.Info("conversation created",
		zap.Uint("conversation_id", conversation.ID),
		zap.Uint("user_id", userID),
		zap.Uint("receiver_id", receiverID),
	)
	return conversation, nil
}

// SendMessage stores a message after checking the sender belongs to the
// conversation. It returns the saved message and the other participants'
// ids for fan-out.
func (s *ChatService) SendMessage(senderID uint, req models.SendMessageRequest) (*models.Message, []uint, error) {
	participantIDs, err := s.conversationRepo.ParticipantIDs(req.ConversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("conversation %d: %w", req.ConversationID, ErrNotFound)
	}

	var isParticipant bool
	recipients := make([]uint, 0, len(participantIDs))
	for _, id := range participantIDs {
		if id == senderID {
			isParticipant = true
		} else {
			recipients = append(recipients, id)
		}
	}
	if !isParticipant {
		return nil, nil, fmt.Errorf("conversation %d: %w", req.ConversationID, ErrPermissionDenied)
	}

	message := &models.Message{
		ConversationID: req.ConversationID,
		SenderID:       senderID,
		Content:        req.Content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, nil, err
	}

	if err := s.conversationRepo.Touch(req.ConversationID); err != nil {
		s.log.Warn("failed to touch conversation", zap.Uint("conversation_id", req.ConversationID), zap.Error(err))
	}

	if sender, err := s.userRepo.GetByID(senderID); err == nil {
		message.Sender = sender
	}
	return message, recipients, nil
}

// GetConversations lists the user's conversations with the other
// participants and the latest message of each.
func (s *ChatService) GetConversations(userID uint) ([]models.ConversationSummary, error) {
	conversations, err := s.conversationRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary := models.ConversationSummary{
			ID:        conversation.ID,
			Title:     conversation.Title,
			IsActive:  conversation.IsActive,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		}
		for _, participant := range conversation.Participants {
			if participant.ID != userID {
				summary.Receivers = append(summary.Receivers, participant.Public())
			}
		}

		last, err := s.messageRepo.LastByConversation(conversation.ID)
		if err == nil {
			view := messageView(last)
			summary.LastMessage = &view
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetMessages returns a conversation's messages and marks the other side's
// messages as read.
func (s *ChatService) GetMessages(conversationID, userID uint) ([]models.MessageView, error) {
	participantIDs, err := s.conversationRepo.ParticipantIDs(conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, ErrNotFound)
	}

	var isParticipant bool
	for _, id := range participantIDs {
		if id == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, ErrPermissionDenied)
	}

	if err := s.messageRepo.MarkRead(conversationID, userID); err != nil {
		s.log.Warn("failed to mark messages read", zap.Uint("conversation_id", conversationID), zap.Error(err))
	}

	messages, err := s.messageRepo.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, messageView(&messages[i]))
	}
	return views, nil
}

func messageView(message *models.Message) models.MessageView {
	view := models.MessageView{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Content:        message.Content,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
	}
	if message.Sender != nil {
		view.Sender = message.Sender.Public()
	}
	return view
}
