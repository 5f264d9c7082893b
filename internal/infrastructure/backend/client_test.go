package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", time.Second, zerolog.Nop(), opts...)
}

func TestClient_Login_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		var body domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Email != "alice@example.com" || body.Password != "secret1" {
			t.Fatalf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token": "a.b.c", "type": "Bearer", "id": "1", "email": "alice@example.com",
			"firstName": "Alice", "lastName": "Admin", "role": "ADMIN",
		})
	})

	resp, err := c.Login(context.Background(), domain.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "a.b.c" || resp.Type != "Bearer" || resp.Role != "ADMIN" || resp.FirstName != "Alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClient_Login_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	})

	_, err := c.Login(context.Background(), domain.LoginRequest{Email: "a@example.com", Password: "bad"})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_ErrorBodies(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":"forbidden"}`, "forbidden"},
		{`{"email":"must be a well-formed email address"}`, ""},
		{`<html>oops</html>`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := c.Register(context.Background(), domain.RegisterRequest{Email: "x@example.com"})
		if got := domain.UserMessage(err, ""); got != tc.want {
			t.Fatalf("body %q: message %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestClient_Register_Acknowledgement(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["role"] != "VENDOR" || body["firstName"] != "Val" {
			t.Fatalf("unexpected body: %v", body)
		}
		if _, ok := body["phoneNumber"]; ok {
			t.Fatalf("empty optional fields must be omitted")
		}
		_, _ = w.Write([]byte(`{"message":"User registered successfully!"}`))
	})

	ack, err := c.Register(context.Background(), domain.RegisterRequest{
		Email: "v@example.com", Password: "secret1", FirstName: "Val", LastName: "Vendor", Role: domain.RoleVendor,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if ack.Message != "User registered successfully!" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
}

func TestClient_Register_PlainTextAcknowledgement(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("registered\n"))
	})
	ack, err := c.Register(context.Background(), domain.RegisterRequest{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if ack.Message != "registered" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
}

func TestClient_ListEvents_AttachesBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/events" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"e1","title":"Jazz Night","vendorId":"v1","status":"APPROVED","maxAttendees":50,"ticketPrice":12.5,"eventDate":"2026-05-01T00:00:00Z","startTime":"2026-05-01T19:00:00Z","endTime":"2026-05-01T23:00:00Z"}]`))
	}, WithTokenSource(func(context.Context) (string, bool) { return "tok-123", true }))

	events, err := c.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Jazz Night" || events[0].Status != domain.EventApproved || events[0].TicketPrice != 12.5 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	var observed string
	c := NewClient(url, time.Second, zerolog.Nop(), WithObserver(func(endpoint, status string, _ time.Duration) {
		observed = endpoint + " " + status
	}))
	_, err := c.Login(context.Background(), domain.LoginRequest{Email: "a@example.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if observed != "/auth/login error" {
		t.Fatalf("observer not notified: %q", observed)
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	if _, err := c.Login(context.Background(), domain.LoginRequest{}); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	healthy := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	healthy = false
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected error for 503")
	}
}
