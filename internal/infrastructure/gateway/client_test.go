package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// ---- stub credential source ----

type stubCreds struct {
	mu       sync.Mutex
	tokens   map[string]string
	forced   int
	attempts int
}

func newStubCreds() *stubCreds {
	return &stubCreds{tokens: map[string]string{"sid-1": "tok-1"}}
}

func (s *stubCreds) Credential(_ context.Context, sid string) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Credential{Token: s.tokens[sid]}, nil
}

func (s *stubCreds) ForceLogout(_ context.Context, sid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if _, ok := s.tokens[sid]; !ok {
		return false, nil
	}
	delete(s.tokens, sid)
	s.forced++
	return true, nil
}

func newTestClient(t *testing.T, srv *httptest.Server, creds CredentialSource) *Client {
	t.Helper()
	c, err := NewClient(domain.BackendPatient, srv.URL+"/api", srv.Client(), creds, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

// ---- tests ----

func TestClient_AttachesBearerAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "p-1"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, newStubCreds())
	var out map[string]string
	err := c.Do(context.Background(), "sid-1", ports.Request{
		Path:  "/patients/p-1/",
		Query: url.Values{"patient_user_id": {"p-1"}},
	}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotPath != "/api/patients/p-1/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "patient_user_id=p-1" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if out["id"] != "p-1" {
		t.Fatalf("response not decoded: %v", out)
	}
}

func TestClient_NoCredentialNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, newStubCreds())
	for _, sid := range []string{"", "sid-unknown"} {
		if err := c.Do(context.Background(), sid, ports.Request{Path: "/doctors/"}, nil); err != nil {
			t.Fatalf("do: %v", err)
		}
		if gotAuth != "" {
			t.Fatalf("session %q: expected no authorization header, got %q", sid, gotAuth)
		}
	}
}

func TestClient_UnauthorizedForcesLogoutOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	creds := newStubCreds()
	c := newTestClient(t, srv, creds)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Do(context.Background(), "sid-1", ports.Request{Path: "/patients/"}, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("caller %d: expected ErrUnauthorized, got %v", i, err)
		}
	}
	if creds.forced != 1 {
		t.Fatalf("expected exactly one forced logout, got %d", creds.forced)
	}
	if creds.attempts != callers {
		t.Fatalf("expected every caller to attempt logout, got %d", creds.attempts)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
		msg    string
		field  string
	}{
		{http.StatusConflict, `{"error":"Doctor is not available"}`, domain.ErrConflict, "Doctor is not available", ""},
		{http.StatusBadRequest, `{"error":"Validation error","details":{"username":["This field is required."]}}`, domain.ErrValidation, "Validation error", "username"},
		{http.StatusBadRequest, `{"phone_number":["Invalid."]}`, domain.ErrValidation, "", "phone_number"},
		{http.StatusNotFound, `{"error":"Patient not found"}`, domain.ErrNotFound, "Patient not found", ""},
		{http.StatusInternalServerError, `<html>boom</html>`, domain.ErrUpstream, "<html>boom</html>", ""},
		{http.StatusServiceUnavailable, ``, domain.ErrServiceUnavailable, "", ""},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		c := newTestClient(t, srv, newStubCreds())
		err := c.Do(context.Background(), "sid-1", ports.Request{Method: http.MethodPost, Path: "/x/", Body: map[string]string{"a": "b"}}, nil)
		srv.Close()

		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		var gwErr *Error
		if !errors.As(err, &gwErr) {
			t.Fatalf("status %d: expected *gateway.Error, got %T", tc.status, err)
		}
		if gwErr.Message != tc.msg || gwErr.UserMessage() != tc.msg {
			t.Fatalf("status %d: message %q, want %q", tc.status, gwErr.Message, tc.msg)
		}
		if tc.field != "" && len(gwErr.Fields[tc.field]) == 0 {
			t.Fatalf("status %d: field %q missing in %v", tc.status, tc.field, gwErr.Fields)
		}
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, newStubCreds())
	srv.Close()

	err := c.Do(context.Background(), "sid-1", ports.Request{Path: "/patients/"}, nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestRegistry_DispatchesByService(t *testing.T) {
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, true)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg, err := NewRegistry(map[domain.Backend]string{
		domain.BackendDoctor:       srv.URL + "/doctor-api",
		domain.BackendAppointments: srv.URL + "/appt-api",
	}, 0, newStubCreds(), zerolog.Nop())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	if err := reg.Do(context.Background(), domain.BackendAppointments, "", ports.Request{Path: "/appointments/"}, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if _, ok := hits.Load("/appt-api/appointments/"); !ok {
		t.Fatalf("appointments client not used")
	}
	if err := reg.Do(context.Background(), domain.BackendLab, "", ports.Request{Path: "/orders/"}, nil); err == nil {
		t.Fatalf("expected error for unconfigured service")
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewClient(domain.BackendLab, "/api", nil, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}
