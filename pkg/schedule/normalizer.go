package schedule

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/schoolcal/schoolcal/internal/utils"
	log "github.com/sirupsen/logrus"
)

// dateLayouts are tried in order against the raw date cell. First match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC3339,
}

// Normalizer maps raw CSV text onto sorted Rows using a configured header
// alias table. It is pure: same input text, same output rows.
type Normalizer struct {
	columns config.Columns
}

func NewNormalizer(columns config.Columns) *Normalizer {
	return &Normalizer{columns: columns}
}

// columnIndexes resolves each logical field to a header column index, or -1
// when no header matches any of the field's aliases.
type columnIndexes struct {
	date   int
	event  int
	school int
	notes  int
}

func (n *Normalizer) resolveColumns(header []string) columnIndexes {
	return columnIndexes{
		date:   findColumn(header, n.columns.Date),
		event:  findColumn(header, n.columns.Event),
		school: findColumn(header, n.columns.School),
		notes:  findColumn(header, n.columns.Notes),
	}
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if normalized == strings.ToLower(strings.TrimSpace(alias)) {
				return i
			}
		}
	}
	return -1
}

// Normalize parses CSV text into rows sorted ascending by date. Rows with an
// unparseable date or an empty event/school are dropped silently: this is a
// data-quality filter, not an error path. A structurally broken record never
// aborts the rest of the parse.
func (n *Normalizer) Normalize(text string) []Row {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		log.Debugf("schedule: could not read CSV header: %v", err)
		return nil
	}
	cols := n.resolveColumns(header)
	if cols.date < 0 || cols.event < 0 || cols.school < 0 {
		log.Warnf("schedule: CSV header %v is missing required columns, no rows retained", header)
		return nil
	}

	var rows []Row
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the broken record, keep going with the next one.
			dropped++
			continue
		}

		date, ok := parseDate(cell(record, cols.date))
		event := strings.TrimSpace(cell(record, cols.event))
		school := strings.TrimSpace(cell(record, cols.school))
		if !ok || event == "" || school == "" {
			dropped++
			continue
		}

		rows = append(rows, Row{
			Date:   date,
			Event:  event,
			School: school,
			Notes:  strings.TrimSpace(cell(record, cols.notes)),
		})
	}
	if dropped > 0 {
		log.Debugf("schedule: dropped %d row(s) during normalization", dropped)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return utils.StartOfDay(t), true
		}
	}
	return time.Time{}, false
}
