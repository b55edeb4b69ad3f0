package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const maxChatMessage = 4000

type chatService struct {
	gateway  ports.Gateway
	sessions ports.SessionStore
	log      zerolog.Logger
}

// NewChatService returns the assistant relay used by the chat widget.
func NewChatService(gateway ports.Gateway, sessions ports.SessionStore, log zerolog.Logger) ports.ChatService {
	return &chatService{gateway: gateway, sessions: sessions, log: log.With().Str("component", "chat").Logger()}
}

// Send relays one message. For logged-in visitors the conversation id is
// kept in the session so it survives page loads.
func (s *chatService) Send(ctx context.Context, sess *domain.Session, in ports.ChatInput) (*domain.ChatReply, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyMessage)
	}
	if utf8.RuneCountInString(msg) > maxChatMessage {
		return nil, fmt.Errorf("%w: message is longer than %d characters", domain.ErrValidation, maxChatMessage)
	}

	chatID := in.SessionID
	sid := ""
	if sess != nil {
		sid = sess.ID
		if chatID == "" {
			chatID = sess.ChatSessionID
		}
	}

	var reply domain.ChatReply
	err := s.gateway.Do(ctx, domain.BackendChatbot, sid, ports.Request{
		Method: http.MethodPost,
		Path:   "/message/",
		Body:   domain.ChatMessage{Message: msg, SessionID: chatID},
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	if reply.SessionID == "" {
		reply.SessionID = chatID
	}

	if sess != nil && reply.SessionID != "" && reply.SessionID != sess.ChatSessionID {
		if err := s.sessions.SetChatSession(ctx, sess.ID, reply.SessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to remember chat session")
		}
	}

	if in.Speak {
		reply.Speech = domain.SpeechText(reply.Response)
	}
	return &reply, nil
}
