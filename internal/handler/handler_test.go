package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agenda-go/internal/cache"
	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/service"
	"github.com/olegiv/agenda-go/internal/session"
	"github.com/olegiv/agenda-go/internal/testutil"
)

// testEnv hosts the API on an httptest server with a seeded database and a
// cookie-aware client, so tests go through the real session middleware.
type testEnv struct {
	t      *testing.T
	db     *sql.DB
	sm     *scs.SessionManager
	svc    *service.SessionService
	server *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestSeededDB(t)
	sm := session.New(db, true)
	svc := service.NewSessionService(db)

	cm := cache.NewManager(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}), time.Minute)
	t.Cleanup(func() { _ = cm.Close() })
	svc.OnChange(cm.Invalidate)

	authH := NewAuthHandler(db, sm, nil, nil)
	sessH := NewSessionHandler(db, svc)
	calH := NewCalendarHandler(svc, cm)
	healthH := NewHealthHandler(db, sm, nil)
	transferH := NewTransferHandler(db, cm.Invalidate)

	r := chi.NewRouter()
	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sm.LoadAndSave)

		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sm), middleware.LoadUser(sm, db))

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", authH.Me)
			r.Get("/sessions", sessH.List)
			r.Get("/sessions/{id}", sessH.Get)
			r.Get("/calendar", calH.Events)
			r.Get("/calendar.ics", calH.ICS)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Post("/sessions", sessH.Create)
				r.Put("/sessions/{id}", sessH.Update)
				r.Delete("/sessions/{id}", sessH.Delete)
				r.Get("/export", transferH.Export)
				r.Post("/import", transferH.Import)
			})
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testEnv{
		t:      t,
		db:     db,
		sm:     sm,
		svc:    svc,
		server: server,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) get(path string) *http.Response {
	e.t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		e.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) postJSON(path string, body any) *http.Response {
	e.t.Helper()
	return e.doJSON(http.MethodPost, path, body)
}

func (e *testEnv) doJSON(method, path string, body any) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// login authenticates the env's client, failing the test on any non-200.
func (e *testEnv) login(email, password string) {
	e.t.Helper()

	resp := e.postJSON("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		e.t.Fatalf("login as %s: status %d, body %s", email, resp.StatusCode, body)
	}
}

func (e *testEnv) loginAdmin() { e.login("admin@sdi.es", "admin123") }
func (e *testEnv) loginUser()  { e.login("usuario@gmail.com", "user123") }

// decodeData unmarshals the "data" member of a response envelope into v.
func decodeData(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parsing time %q: %v", value, err)
	}
	return parsed
}

// decodeError unmarshals an error response envelope.
func decodeError(t *testing.T, resp *http.Response) ErrorDetail {
	t.Helper()
	defer resp.Body.Close()

	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return envelope.Error
}
