package handler

import (
	"encoding/json"

	"github.com/chodocu/chodocu-backend/internal/chat"
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	hub         *chat.Hub
	validator   *utils.Validator
	log         *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, hub *chat.Hub, validator *utils.Validator, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
		validator:   validator,
		log:         log,
	}
}

func (h *ChatHandler) StartConversation(c *fiber.Ctx) error {
	var req models.CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	conversation, err := h.chatService.StartConversation(middleware.UserIDFromCtx(c), req.ReceiverID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(conversation, ""))
}

func (h *ChatHandler) GetConversations(c *fiber.Ctx) error {
	summaries, err := h.chatService.GetConversations(middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(summaries, ""))
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid conversation id")
	}

	messages, err := h.chatService.GetMessages(uint(id), middleware.UserIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(messages, ""))
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	message, recipients, err := h.chatService.SendMessage(middleware.UserIDFromCtx(c), req)
	if err != nil {
		return fail(c, err)
	}

	view := messageToView(message)
	h.hub.Deliver(&view, recipients...)

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(view, ""))
}

// ServeWS is the websocket read loop. Inbound frames are message events; the
// stored message is echoed to the sender and pushed to the other
// participants.
func (h *ChatHandler) ServeWS(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(uint)
	if !ok || userID == 0 {
		conn.Close()
		return
	}

	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID, conn)
		conn.Close()
	}()

	for {
		var event chat.Event
		if err := conn.ReadJSON(&event); err != nil {
			return
		}
		if event.Type != chat.EventMessage {
			continue
		}

		var req models.SendMessageRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			h.writeError(conn, "invalid message payload")
			continue
		}
		if err := h.validator.Struct(req); err != nil {
			h.writeError(conn, err.Error())
			continue
		}

		message, recipients, err := h.chatService.SendMessage(userID, req)
		if err != nil {
			h.writeError(conn, err.Error())
			continue
		}

		view := messageToView(message)
		h.hub.Deliver(&view, append(recipients, userID)...)
	}
}

func (h *ChatHandler) writeError(conn *websocket.Conn, message string) {
	payload, _ := json.Marshal(fiber.Map{"error": message})
	if err := conn.WriteJSON(chat.Event{Type: chat.EventError, Payload: payload}); err != nil {
		h.log.Warn("websocket error write failed", zap.Error(err))
	}
}

func messageToView(message *models.Message) models.MessageView {
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
