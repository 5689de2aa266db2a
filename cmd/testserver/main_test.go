package main

import (
	"context"
	"testing"
	"time"

	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedCompleter(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	today := time.Date(2025, 6, 9, 8, 0, 0, 0, la)
	prompt := extract.BuildPrompt("dentist", today, "America/Los_Angeles")

	t.Run("schedules tomorrow at ten", func(t *testing.T) {
		c := &cannedCompleter{}

		raw, err := c.Complete(context.Background(), extract.SystemInstruction(), prompt)
		require.NoError(t, err)

		fields, err := extract.ParseSuggestion(raw)
		require.NoError(t, err)
		assert.Equal(t, "dentist", fields.Summary)
		assert.Equal(t, "2025-06-10T10:00:00-07:00", fields.Start)
		assert.Equal(t, "2025-06-10T11:00:00-07:00", fields.End)
	})

	t.Run("queued reply is used once", func(t *testing.T) {
		c := &cannedCompleter{}
		c.queue("Summary: broken")

		raw, err := c.Complete(context.Background(), "", prompt)
		require.NoError(t, err)
		assert.Equal(t, "Summary: broken", raw)

		raw, err = c.Complete(context.Background(), "", prompt)
		require.NoError(t, err)
		assert.Contains(t, raw, "Summary: dentist")
	})
}
