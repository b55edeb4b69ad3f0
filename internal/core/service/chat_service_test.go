package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

func TestChatService_RejectsEmptyAndOversized(t *testing.T) {
	gw := &stubGateway{}
	svc := NewChatService(gw, newStubSessions(), zerolog.Nop())

	if _, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: "   "}); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	long := strings.Repeat("a", maxChatMessage+1)
	if _, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: long}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if gw.count() != 0 {
		t.Fatalf("invalid messages must not reach the assistant")
	}
}

func TestChatService_LengthCountsCharacters(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) {
		return domain.ChatReply{Response: "ok", SessionID: "c"}, nil
	}}
	svc := NewChatService(gw, newStubSessions(), zerolog.Nop())

	// multi-byte runes put the byte length well over the limit
	msg := strings.Repeat("é", maxChatMessage/2) + strings.Repeat("日", maxChatMessage/2)
	if _, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: msg}); err != nil {
		t.Fatalf("a message of exactly %d characters must be accepted, got %v", maxChatMessage, err)
	}
	if _, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: msg + "日"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation past the limit, got %v", err)
	}
}

func TestChatService_Anonymous(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) {
		return domain.ChatReply{Response: "Hello", SessionID: "chat-1"}, nil
	}}
	sessions := newStubSessions()
	svc := NewChatService(gw, sessions, zerolog.Nop())

	reply, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.SessionID != "chat-1" || reply.Speech != "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	call, ok := gw.find(domain.BackendChatbot, http.MethodPost, "/message/")
	if !ok || call.SessionID != "" {
		t.Fatalf("expected an anonymous POST /message/, got %+v", call)
	}
	if len(sessions.chatSession) != 0 {
		t.Fatalf("anonymous chats are not stored")
	}
}

func TestChatService_RemembersConversation(t *testing.T) {
	var sent []domain.ChatMessage
	gw := &stubGateway{handle: func(_ domain.Backend, req ports.Request) (any, error) {
		sent = append(sent, req.Body.(domain.ChatMessage))
		return domain.ChatReply{Response: "ok", SessionID: "chat-7"}, nil
	}}
	sessions := newStubSessions()
	svc := NewChatService(gw, sessions, zerolog.Nop())
	sess := sessionFor(domain.RolePatient, "p-1")
	sess.ChatSessionID = "chat-5"

	if _, err := svc.Send(context.Background(), sess, ports.ChatInput{Message: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent[0].SessionID != "chat-5" {
		t.Fatalf("expected the stored conversation to continue, got %q", sent[0].SessionID)
	}
	if sessions.chatSession[sess.ID] != "chat-7" {
		t.Fatalf("expected the new conversation id to be stored, got %v", sessions.chatSession)
	}

	// an explicit id from the widget wins
	if _, err := svc.Send(context.Background(), sess, ports.ChatInput{Message: "hi", SessionID: "chat-x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent[1].SessionID != "chat-x" {
		t.Fatalf("expected chat-x, got %q", sent[1].SessionID)
	}
}

func TestChatService_Speech(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) {
		return domain.ChatReply{Response: "👋 **Hello**  there,\n*friend*", SessionID: "c"}, nil
	}}
	svc := NewChatService(gw, newStubSessions(), zerolog.Nop())

	reply, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: "hi", Speak: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Speech != "Hello there, friend" {
		t.Fatalf("unexpected speech %q", reply.Speech)
	}
	if reply.Response == reply.Speech {
		t.Fatalf("the displayed response must keep its formatting")
	}
}

func TestChatService_BackendDown(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) {
		return nil, domain.ErrServiceUnavailable
	}}
	svc := NewChatService(gw, newStubSessions(), zerolog.Nop())

	_, err := svc.Send(context.Background(), nil, ports.ChatInput{Message: "hi"})
	if domain.Classify(err) != domain.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
