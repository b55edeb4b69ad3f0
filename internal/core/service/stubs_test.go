package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// ---- gateway stub ----

type gatewayCall struct {
	Backend   domain.Backend
	SessionID string
	Req       ports.Request
}

// stubGateway answers every call through handle and round-trips the
// response through JSON, like the real gateway decoding a body.
type stubGateway struct {
	mu     sync.Mutex
	calls  []gatewayCall
	handle func(backend domain.Backend, req ports.Request) (any, error)
}

func (g *stubGateway) Do(_ context.Context, backend domain.Backend, sessionID string, req ports.Request, out any) error {
	g.mu.Lock()
	g.calls = append(g.calls, gatewayCall{Backend: backend, SessionID: sessionID, Req: req})
	g.mu.Unlock()

	if g.handle == nil {
		return nil
	}
	resp, err := g.handle(backend, req)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// backendError mimics a gateway error that carries the service's own message.
type backendError struct {
	kind error
	msg  string
}

func (e *backendError) Error() string       { return e.msg }
func (e *backendError) Unwrap() error       { return e.kind }
func (e *backendError) UserMessage() string { return e.msg }

// find returns the first call to backend with method and path. An empty
// method matches GET.
func (g *stubGateway) find(backend domain.Backend, method, path string) (gatewayCall, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		m := c.Req.Method
		if m == "" {
			m = "GET"
		}
		if c.Backend == backend && m == method && c.Req.Path == path {
			return c, true
		}
	}
	return gatewayCall{}, false
}

func (g *stubGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// bodyOf decodes a recorded request body into a generic map.
func bodyOf(c gatewayCall) map[string]any {
	data, _ := json.Marshal(c.Req.Body)
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	return m
}

// ---- session stubs ----

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (n *recordingNotifier) Publish(e domain.SessionEvent) {
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
}

func (n *recordingNotifier) Subscribe(ports.SessionListener) func() { return func() {} }

func (n *recordingNotifier) kinds() []domain.SessionEventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.SessionEventKind, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Kind)
	}
	return out
}

var errBackendDown = errors.New("backend down")

// failingSessionRepo fails every write.
type failingSessionRepo struct{}

func (failingSessionRepo) Save(context.Context, *domain.Session) error { return errBackendDown }
func (failingSessionRepo) Load(context.Context, string) (*domain.Session, error) {
	return nil, errBackendDown
}
func (failingSessionRepo) Delete(context.Context, string) (bool, error) { return false, errBackendDown }
func (failingSessionRepo) Ping(context.Context) error                   { return errBackendDown }

// stubSessions is a fixed-identity SessionStore for services that only need
// logout and chat bookkeeping.
type stubSessions struct {
	mu          sync.Mutex
	loggedOut   []string
	chatSession map[string]string
	loginErr    error
}

func newStubSessions() *stubSessions {
	return &stubSessions{chatSession: make(map[string]string)}
}

func (s *stubSessions) Login(_ context.Context, identity domain.Identity, cred domain.Credential) (*domain.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.Session{ID: "sess-new", Identity: identity, Credential: cred}, nil
}

func (s *stubSessions) Logout(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedOut = append(s.loggedOut, id)
	return true, nil
}

func (s *stubSessions) ForceLogout(ctx context.Context, id string) (bool, error) {
	return s.Logout(ctx, id)
}

func (s *stubSessions) Current(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessions) Credential(context.Context, string) (domain.Credential, error) {
	return domain.Credential{}, nil
}

func (s *stubSessions) SetChatSession(_ context.Context, id, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatSession[id] = chatID
	return nil
}

func (s *stubSessions) Subscribe(ports.SessionListener) func() { return func() {} }

// ---- fixtures ----

func sessionFor(role domain.Role, userID string) *domain.Session {
	return &domain.Session{
		ID:         "sess-" + userID,
		Identity:   domain.Identity{ID: userID, Username: userID, Role: role},
		Credential: domain.Credential{Token: "tok"},
	}
}
