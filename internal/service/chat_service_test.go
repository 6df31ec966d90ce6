package service

import (
	"testing"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatService(db *gorm.DB) *ChatService {
	return NewChatService(
		repository.NewConversationRepository(db),
		repository.NewMessageRepository(db),
		repository.NewUserRepository(db),
		testLogger(),
	)
}

func TestStartConversation_ReusesExisting(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)

	first, err := svc.StartConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	// Either side starting again lands in the same conversation.
	second, err := svc.StartConversation(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartConversation_WithSelf(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)

	_, err := svc.StartConversation(alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSendMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)
	conversation, err := svc.StartConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	message, recipients, err := svc.SendMessage(alice.ID, models.SendMessageRequest{
		ConversationID: conversation.ID,
		Content:        "Món này còn không bạn?",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, message.SenderID)
	assert.Equal(t, []uint{bob.ID}, recipients)
	assert.False(t, message.IsRead)
}

func TestSendMessage_NonParticipant(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)
	eve := createTestUser(t, db, 0)
	conversation, err := svc.StartConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	_, _, err = svc.SendMessage(eve.ID, models.SendMessageRequest{
		ConversationID: conversation.ID,
		Content:        "chen ngang",
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGetMessages_MarksOtherSideRead(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)
	conversation, err := svc.StartConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	_, _, err = svc.SendMessage(alice.ID, models.SendMessageRequest{
		ConversationID: conversation.ID,
		Content:        "Chào bạn",
	})
	require.NoError(t, err)

	messages, err := svc.GetMessages(conversation.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)

	var stored models.Message
	require.NoError(t, db.Where("conversation_id = ?", conversation.ID).First(&stored).Error)
	assert.True(t, stored.IsRead)
}

func TestGetConversations_ListsReceiverAndLastMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newChatService(db)

	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)
	conversation, err := svc.StartConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	_, _, err = svc.SendMessage(alice.ID, models.SendMessageRequest{
		ConversationID: conversation.ID,
		Content:        "tin đầu",
	})
	require.NoError(t, err)
	_, _, err = svc.SendMessage(bob.ID, models.SendMessageRequest{
		ConversationID: conversation.ID,
		Content:        "tin cuối",
	})
	require.NoError(t, err)

	summaries, err := svc.GetConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	require.Len(t, summaries[0].Receivers, 1)
	assert.Equal(t, bob.ID, summaries[0].Receivers[0].ID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "tin cuối", summaries[0].LastMessage.Content)
}
