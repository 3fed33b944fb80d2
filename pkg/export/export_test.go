package export

import (
	"strings"
	"testing"
	"time"

	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []schedule.Row {
	return []schedule.Row{
		{
			Date:   time.Date(2025, time.September, 1, 0, 0, 0, 0, time.Local),
			Event:  "No School",
			School: "Lincoln Elementary",
			Notes:  "Labor Day",
		},
		{
			Date:   time.Date(2025, time.October, 13, 0, 0, 0, 0, time.Local),
			Event:  "Half Day",
			School: "Roosevelt Middle School",
			Notes:  "Conferences, bring forms; see newsletter",
		},
	}
}

func TestIcsRender(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.August, 27, 12, 0, 0, 0, time.UTC)}
	renderer := NewIcsRenderer(clock)

	rendered := renderer.Render(testRows())

	t.Run("one VEVENT per row inside a VCALENDAR", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(rendered, "BEGIN:VCALENDAR\n"))
		assert.True(t, strings.HasSuffix(rendered, "END:VCALENDAR\n"))
		assert.Equal(t, 2, strings.Count(rendered, "BEGIN:VEVENT"))
		assert.Equal(t, 2, strings.Count(rendered, "END:VEVENT"))
	})

	t.Run("all-day events span exactly one day", func(t *testing.T) {
		assert.Contains(t, rendered, "DTSTART;VALUE=DATE:20250901")
		assert.Contains(t, rendered, "DTEND;VALUE=DATE:20250902")
	})

	t.Run("text is escaped", func(t *testing.T) {
		assert.Contains(t, rendered, `Conferences\, bring forms\; see newsletter`)
	})

	t.Run("UIDs are stable across renders", func(t *testing.T) {
		again := renderer.Render(testRows())
		assert.Equal(t, rendered, again)
		assert.Contains(t, rendered, "UID:2025-09-01-lincoln-elementary-no-school@schoolcal")
	})

	t.Run("empty schedule still yields a valid calendar", func(t *testing.T) {
		empty := renderer.Render(nil)
		assert.Contains(t, empty, "BEGIN:VCALENDAR")
		assert.NotContains(t, empty, "BEGIN:VEVENT")
	})
}

func TestCsvRender(t *testing.T) {
	renderer := NewCsvRenderer()

	rendered, err := renderer.Render(testRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(rendered), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,event,school,notes", lines[0])
	assert.Equal(t, "2025-09-01,No School,Lincoln Elementary,Labor Day", lines[1])
	// The comma in the notes forces quoting.
	assert.Contains(t, lines[2], `"Conferences, bring forms; see newsletter"`)
}
