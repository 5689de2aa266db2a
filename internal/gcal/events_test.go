package gcal_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func newFakeSession(t *testing.T) (*gcal.Session, *testutil.FakeCalendar) {
	t.Helper()
	fake := testutil.NewFakeCalendar()
	t.Cleanup(fake.Close)

	service, err := fake.Service(context.Background())
	require.NoError(t, err)
	return gcal.NewSession(service, ""), fake
}

func TestBuildEvent(t *testing.T) {
	t.Run("timed event keeps its offset", func(t *testing.T) {
		event := gcal.BuildEvent(sampleEvent())

		assert.Equal(t, "Lunch with Alex", event.Summary)
		assert.Equal(t, "Cafe Roma", event.Location)
		assert.Equal(t, "Catch up", event.Description)
		assert.Equal(t, "2025-06-10T12:00:00-07:00", event.Start.DateTime)
		assert.Equal(t, "2025-06-10T13:00:00-07:00", event.End.DateTime)
		assert.Empty(t, event.Start.Date)
		assert.Empty(t, event.End.Date)
	})

	t.Run("all-day event uses dates", func(t *testing.T) {
		e := sampleEvent()
		e.AllDay = true

		event := gcal.BuildEvent(e)

		assert.Equal(t, "2025-06-10", event.Start.Date)
		assert.Equal(t, "2025-06-11", event.End.Date)
		assert.Empty(t, event.Start.DateTime)
		assert.Empty(t, event.End.DateTime)
	})
}

func TestSessionInsertEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts into the primary calendar", func(t *testing.T) {
		session, fake := newFakeSession(t)

		created, err := session.InsertEvent(ctx, sampleEvent())
		require.NoError(t, err)

		assert.Equal(t, "evt1", created.ID)
		assert.Contains(t, created.HTMLLink, "evt1")
		assert.Equal(t, "Lunch with Alex", created.Summary)
		assert.Equal(t, extract.Boundary{DateTime: "2025-06-10T12:00:00-07:00"}, created.Start)

		inserted := fake.Inserted()
		require.Len(t, inserted, 1)
		assert.Equal(t, "Cafe Roma", inserted[0].Location)
		assert.Equal(t, "2025-06-10T13:00:00-07:00", inserted[0].End.DateTime)
	})

	t.Run("api failure is returned", func(t *testing.T) {
		session, fake := newFakeSession(t)
		fake.FailWith(http.StatusInternalServerError, "backend error")

		_, err := session.InsertEvent(ctx, sampleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create event")
		assert.Empty(t, fake.Inserted())
	})
}

func TestSessionListUpcoming(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 6, 9, 8, 30, 15, 500, time.FixedZone("PDT", -7*3600))

	t.Run("queries a single-event window", func(t *testing.T) {
		session, fake := newFakeSession(t)
		fake.AddEvent(&calendar.Event{
			Id:      "a",
			Summary: "Standup",
			Start:   &calendar.EventDateTime{DateTime: "2025-06-10T09:00:00-07:00"},
			End:     &calendar.EventDateTime{DateTime: "2025-06-10T09:15:00-07:00"},
		})

		events, err := session.ListUpcoming(ctx, from, 7)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Standup", events[0].Summary)

		query := fake.LastListQuery()
		assert.Equal(t, "2025-06-09T15:30:15Z", query.Get("timeMin"))
		assert.Equal(t, "2025-06-16T15:30:15Z", query.Get("timeMax"))
		assert.Equal(t, "true", query.Get("singleEvents"))
		assert.Equal(t, "startTime", query.Get("orderBy"))
	})

	t.Run("empty calendar returns an empty slice", func(t *testing.T) {
		session, _ := newFakeSession(t)

		events, err := session.ListUpcoming(ctx, from, 7)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("rejects non-positive windows", func(t *testing.T) {
		session, _ := newFakeSession(t)

		_, err := session.ListUpcoming(ctx, from, 0)
		assert.Error(t, err)
	})

	t.Run("api failure is returned", func(t *testing.T) {
		session, fake := newFakeSession(t)
		fake.FailWith(http.StatusForbidden, "insufficient permissions")

		_, err := session.ListUpcoming(ctx, from, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list events")
	})
}
