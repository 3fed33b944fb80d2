package schedule

import (
	"testing"
	"time"

	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/stretchr/testify/assert"
)

func testColumns() config.Columns {
	return config.Columns{
		Date:   []string{"date", "day"},
		Event:  []string{"event", "type"},
		School: []string{"school", "campus"},
		Notes:  []string{"notes", "details"},
	}
}

func TestNormalize(t *testing.T) {
	normalizer := NewNormalizer(testColumns())

	t.Run("maps aliased headers case- and whitespace-insensitively", func(t *testing.T) {
		csv := " DAY , Type ,Campus, Details \n" +
			"2025-09-01,No School,Lincoln Elementary,Labor Day\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 1)
		assert.Equal(t, "No School", rows[0].Event)
		assert.Equal(t, "Lincoln Elementary", rows[0].School)
		assert.Equal(t, "Labor Day", rows[0].Notes)
		assert.Equal(t, "2025-09-01", rows[0].DayKey())
	})

	t.Run("accepts common date formats", func(t *testing.T) {
		csv := "date,event,school\n" +
			"2025-09-01,A,S\n" +
			"9/2/2025,B,S\n" +
			"Sep 3, 2025...broken\n" + // unparseable, dropped
			"\"September 4, 2025\",D,S\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 3)
		assert.Equal(t, "2025-09-01", rows[0].DayKey())
		assert.Equal(t, "2025-09-02", rows[1].DayKey())
		assert.Equal(t, "2025-09-04", rows[2].DayKey())
	})

	t.Run("drops rows with bad dates or empty required fields", func(t *testing.T) {
		csv := "date,event,school,notes\n" +
			"not-a-date,No School,Lincoln,\n" +
			"2025-09-01, ,Lincoln,\n" +
			"2025-09-01,No School, ,\n" +
			"2025-09-01,No School,Lincoln,kept\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 1)
		assert.Equal(t, "kept", rows[0].Notes)
	})

	t.Run("missing notes column yields empty notes", func(t *testing.T) {
		csv := "date,event,school\n2025-09-01,No School,Lincoln\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 1)
		assert.Equal(t, "", rows[0].Notes)
	})

	t.Run("missing required column drops every row", func(t *testing.T) {
		csv := "date,event\n2025-09-01,No School\n"

		assert.Empty(t, normalizer.Normalize(csv))
	})

	t.Run("short rows are treated as missing fields", func(t *testing.T) {
		csv := "date,event,school\n2025-09-01,No School\n2025-09-02,No School,Lincoln\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 1)
		assert.Equal(t, "2025-09-02", rows[0].DayKey())
	})

	t.Run("sorts ascending by date, stable on ties", func(t *testing.T) {
		csv := "date,event,school\n" +
			"2025-09-03,Late,Lincoln\n" +
			"2025-09-01,First,Lincoln\n" +
			"2025-09-01,Second,Roosevelt\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 3)
		assert.Equal(t, "First", rows[0].Event)
		assert.Equal(t, "Second", rows[1].Event)
		assert.Equal(t, "Late", rows[2].Event)
	})

	t.Run("dates are normalized to start of day", func(t *testing.T) {
		csv := "date,event,school\n2025-09-01T08:30:00Z,No School,Lincoln\n"

		rows := normalizer.Normalize(csv)

		assert.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].Date.Hour())
		assert.Equal(t, 0, rows[0].Date.Minute())
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		csv := "date,event,school,notes\n" +
			"2025-09-03,Half Day,Lincoln,conferences\n" +
			"2025-09-01,No School,Roosevelt,\n"

		first := normalizer.Normalize(csv)
		second := normalizer.Normalize(csv)

		assert.Equal(t, first, second)
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		assert.Empty(t, normalizer.Normalize(""))
	})
}

func TestParseDate(t *testing.T) {
	parsed, ok := parseDate(" 2025-08-27 ")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.August, 27, 0, 0, 0, 0, time.Local), parsed)

	_, ok = parseDate("27th of August")
	assert.False(t, ok)

	_, ok = parseDate("")
	assert.False(t, ok)
}
