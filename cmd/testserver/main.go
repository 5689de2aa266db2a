// Package main provides a self-contained server for exercising the web flow
// by hand or from browser tests. The calendar is an in-memory fake and the
// model is replaced by a canned completer, so no Google or LLM credentials are
// needed.
//
// Usage:
//
//	go run ./cmd/testserver
//
// The server exposes additional test control endpoints:
//   - GET  /api/test/inserted - Events inserted so far
//   - POST /api/test/reply - Set the next completion text (raw body)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/server"
	"github.com/omriShneor/quickcal/internal/testutil"
)

var (
	todayPattern  = regexp.MustCompile(`Today is \w+, (\d{4}-\d{2}-\d{2})\.`)
	offsetPattern = regexp.MustCompile(`UTC offset ([+-]\d{2}:\d{2}) today`)
	infoPattern   = regexp.MustCompile(`following information: '(.*)'\.`)
)

// cannedCompleter answers with a one-hour event at 10:00 the next day, unless
// a reply was queued through /api/test/reply.
type cannedCompleter struct {
	mu     sync.Mutex
	queued string
}

func (c *cannedCompleter) queue(reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queued = reply
}

func (c *cannedCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	queued := c.queued
	c.queued = ""
	c.mu.Unlock()
	if queued != "" {
		return queued, nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	if m := todayPattern.FindStringSubmatch(prompt); m != nil {
		today = m[1]
	}
	offset := "+00:00"
	if m := offsetPattern.FindStringSubmatch(prompt); m != nil {
		offset = m[1]
	}
	summary := "Test event"
	if m := infoPattern.FindStringSubmatch(prompt); m != nil {
		summary = m[1]
	}

	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		return "", err
	}
	next := day.AddDate(0, 0, 1).Format("2006-01-02")

	return fmt.Sprintf("Summary: %s\nLocation: unspecified\nDescription: %s\nStart: %sT10:00:00%s\nEnd: %sT11:00:00%s\nAll Day Event: false",
		summary, summary, next, offset, next, offset), nil
}

// fakeAuthorizer approves every consent request and opens sessions on the
// in-memory calendar.
type fakeAuthorizer struct {
	fake *testutil.FakeCalendar
}

func (f *fakeAuthorizer) AuthCodeURL(state string) string {
	return "/oauth/callback?code=test-code&state=" + state
}

func (f *fakeAuthorizer) Exchange(ctx context.Context, code string) error {
	return nil
}

func (f *fakeAuthorizer) Authorize(ctx context.Context) (*gcal.Session, error) {
	service, err := f.fake.Service(ctx)
	if err != nil {
		return nil, err
	}
	return gcal.NewSession(service, "primary"), nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("Starting QuickCal test server with a fake calendar and canned completions")

	fake := testutil.NewFakeCalendar()
	defer fake.Close()

	completer := &cannedCompleter{}
	srv := server.New(server.Config{
		Extractor: extract.New(extract.Config{Completer: completer, Logger: logger}),
		Calendar:  &fakeAuthorizer{fake: fake},
		Logger:    logger,
		SecretKey: "test-server-secret",
		Port:      5002,
	})

	testMux := http.NewServeMux()
	testMux.HandleFunc("GET /api/test/inserted", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fake.Inserted())
	})
	testMux.HandleFunc("POST /api/test/reply", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Invalid body", http.StatusBadRequest)
			return
		}
		completer.queue(string(body))
		w.WriteHeader(http.StatusNoContent)
	})
	testMux.Handle("/", srv.Handler())

	httpSrv := &http.Server{
		Addr:         ":5002",
		Handler:      testMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Test server listening", "url", "http://localhost:5002")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpSrv.Shutdown(ctx)
}
