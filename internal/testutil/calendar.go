package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// FakeCalendar serves the slice of the Calendar v3 API the app uses (event
// insert and list) from memory.
type FakeCalendar struct {
	mu        sync.Mutex
	server    *httptest.Server
	events    []*calendar.Event
	inserted  []*calendar.Event
	nextID    int
	failCode  int
	failMsg   string
	listQuery url.Values
	authz     []string
}

// NewFakeCalendar starts a fake Calendar API. Call Close when done.
func NewFakeCalendar() *FakeCalendar {
	f := &FakeCalendar{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	return f
}

// Close shuts the fake API down.
func (f *FakeCalendar) Close() {
	f.server.Close()
}

// URL is the fake API's base URL.
func (f *FakeCalendar) URL() string {
	return f.server.URL
}

// ServiceOptions points a Calendar service at the fake.
func (f *FakeCalendar) ServiceOptions() []option.ClientOption {
	return []option.ClientOption{option.WithEndpoint(f.server.URL + "/")}
}

// Service returns an unauthenticated Calendar service bound to the fake.
func (f *FakeCalendar) Service(ctx context.Context) (*calendar.Service, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(f.server.Client())}, f.ServiceOptions()...)
	return calendar.NewService(ctx, opts...)
}

// AddEvent seeds an event returned by list calls.
func (f *FakeCalendar) AddEvent(event *calendar.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

// Inserted returns the events received by insert calls, in order.
func (f *FakeCalendar) Inserted() []*calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*calendar.Event(nil), f.inserted...)
}

// LastListQuery returns the query string of the most recent list call.
func (f *FakeCalendar) LastListQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listQuery
}

// AuthorizationHeaders returns the Authorization header of every request.
func (f *FakeCalendar) AuthorizationHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authz...)
}

// FailWith makes every following call answer with a Google-style error.
func (f *FakeCalendar) FailWith(code int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCode = code
	f.failMsg = message
}

func (f *FakeCalendar) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authz = append(f.authz, r.Header.Get("Authorization"))

	if f.failCode != 0 {
		writeJSON(w, f.failCode, map[string]any{
			"error": map[string]any{"code": f.failCode, "message": f.failMsg},
		})
		return
	}

	if !strings.HasSuffix(r.URL.Path, "/events") {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": http.StatusNotFound, "message": "not found"},
		})
		return
	}

	switch r.Method {
	case http.MethodPost:
		var event calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": map[string]any{"code": http.StatusBadRequest, "message": err.Error()},
			})
			return
		}
		f.nextID++
		event.Id = fmt.Sprintf("evt%d", f.nextID)
		event.HtmlLink = "https://calendar.example/event?eid=" + event.Id
		event.Status = "confirmed"
		f.inserted = append(f.inserted, &event)
		f.events = append(f.events, &event)
		writeJSON(w, http.StatusOK, &event)

	case http.MethodGet:
		f.listQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, &calendar.Events{
			Kind:  "calendar#events",
			Items: f.events,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
