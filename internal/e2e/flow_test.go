package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/omriShneor/quickcal/internal/completion"
	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/server"
	"github.com/omriShneor/quickcal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

// fakeOpenAI answers every chat completion with reply and records prompts.
type fakeOpenAI struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || r.Header.Get("Authorization") != "Bearer sk-test" {
		http.Error(w, `{"error":{"type":"invalid_request","message":"bad request"}}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	for _, m := range req.Messages {
		if m.Role == "user" {
			f.prompts = append(f.prompts, m.Content)
		}
	}
	reply := f.reply
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id": "chatcmpl-1",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}, "finish_reason": "stop"},
		},
	})
}

func (f *fakeOpenAI) setReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
}

func (f *fakeOpenAI) receivedPrompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type app struct {
	baseURL   string
	client    *http.Client
	calendar  *testutil.FakeCalendar
	llm       *fakeOpenAI
	tokenFile string
	eventsDir string
}

func newApp(t *testing.T) *app {
	t.Helper()

	now := func() time.Time { return time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC) }

	fakeCalendar := testutil.NewFakeCalendar()
	t.Cleanup(fakeCalendar.Close)
	tokenServer := testutil.NewTokenServer(t, http.StatusOK, "access-e2e")

	llm := &fakeOpenAI{}
	llmServer := httptest.NewServer(llm)
	t.Cleanup(llmServer.Close)

	completer, err := completion.New(completion.Config{
		Provider: completion.ProviderOpenAI,
		APIKey:   "sk-test",
		APIURL:   llmServer.URL + "/v1/chat/completions",
	})
	require.NoError(t, err)

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.json")

	srv := server.New(server.Config{
		Extractor: extract.New(extract.Config{Completer: completer, Now: now}),
		Calendar: gcal.NewClient(gcal.ClientConfig{
			OAuth:          testutil.OAuthConfig(tokenServer.URL),
			TokenFile:      tokenFile,
			ServiceOptions: fakeCalendar.ServiceOptions(),
		}),
		SecretKey:  "e2e-secret",
		EventsFile: filepath.Join(dir, "events.json"),
		Now:        now,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &app{
		baseURL: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		calendar:  fakeCalendar,
		llm:       llm,
		tokenFile: tokenFile,
		eventsDir: dir,
	}
}

func (a *app) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.baseURL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateEventFlow(t *testing.T) {
	a := newApp(t)
	a.llm.setReply("**Summary:** Lunch with Alex\n**Location:** Cafe Roma\n**Description:** Catch up\n" +
		"**Start:** 2025-06-10T12:00:00-07:00\n**End:** 2025-06-10T13:00:00-07:00\n**All Day Event:** false")

	var csrfToken string

	t.Run("unauthorized user is sent to consent", func(t *testing.T) {
		resp := a.get(t, "/create_event")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/authorize", resp.Header.Get("Location"))
	})

	t.Run("consent round trip stores a token", func(t *testing.T) {
		resp := a.get(t, "/authorize")
		require.Equal(t, http.StatusFound, resp.StatusCode)

		consent, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		state := consent.Query().Get("state")
		require.NotEmpty(t, state)
		assert.Equal(t, "offline", consent.Query().Get("access_type"))

		resp = a.get(t, "/oauth/callback?"+url.Values{"code": {"code-1"}, "state": {state}}.Encode())
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/create_event", resp.Header.Get("Location"))

		_, err = os.Stat(a.tokenFile)
		assert.NoError(t, err)
	})

	t.Run("form carries a csrf token", func(t *testing.T) {
		resp := a.get(t, "/create_event")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body bytes.Buffer
		_, err := body.ReadFrom(resp.Body)
		require.NoError(t, err)

		m := csrfPattern.FindStringSubmatch(body.String())
		require.NotNil(t, m)
		csrfToken = m[1]
	})

	t.Run("submission creates the event", func(t *testing.T) {
		resp, err := a.client.PostForm(a.baseURL+"/create_event", url.Values{
			"description": {"lunch with Alex tomorrow at noon at Cafe Roma"},
			"timezone":    {"America/Los_Angeles"},
			"csrf_token":  {csrfToken},
		})
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["message"], "Start Time: 2025-06-10 12:00 PM PDT")
		assert.Equal(t, "Collected user timezone is America/Los_Angeles", body["Timezone"])
		assert.NotEmpty(t, body["event_id"])

		inserted := a.calendar.Inserted()
		require.Len(t, inserted, 1)
		assert.Equal(t, "2025-06-10T12:00:00-07:00", inserted[0].Start.DateTime)

		headers := a.calendar.AuthorizationHeaders()
		assert.Equal(t, "Bearer access-e2e", headers[len(headers)-1])

		prompts := a.llm.receivedPrompts()
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "Today is Monday, 2025-06-09.")
		assert.Contains(t, prompts[0], "UTC offset -07:00 today")
	})

	t.Run("listing includes the new event", func(t *testing.T) {
		resp := a.get(t, "/events")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var events []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, "Lunch with Alex", events[0]["summary"])

		_, err := os.Stat(filepath.Join(a.eventsDir, "events.json"))
		assert.NoError(t, err)
	})
}

func TestCreateEventRejectsBadSuggestion(t *testing.T) {
	a := newApp(t)
	require.NoError(t, gcal.SaveToken(a.tokenFile, testutil.ValidToken()))
	a.llm.setReply("Summary: Lunch\nStart: tomorrow noon\nEnd: tomorrow 1pm")

	resp := a.get(t, "/create_event")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page bytes.Buffer
	_, err := page.ReadFrom(resp.Body)
	require.NoError(t, err)
	m := csrfPattern.FindStringSubmatch(page.String())
	require.NotNil(t, m)

	post, err := a.client.PostForm(a.baseURL+"/create_event", url.Values{
		"description": {"lunch tomorrow"},
		"timezone":    {"America/Los_Angeles"},
		"csrf_token":  {m[1]},
	})
	require.NoError(t, err)
	defer post.Body.Close()

	assert.Equal(t, http.StatusBadRequest, post.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(post.Body).Decode(&body))
	assert.Contains(t, body["error"], "malformed timestamp")
	assert.Contains(t, body["error"], "AI response: Summary: Lunch")
	assert.Empty(t, a.calendar.Inserted())
}
