package export

import (
	"bytes"
	"encoding/csv"

	"github.com/schoolcal/schoolcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// CsvRenderer re-renders normalized schedule rows as CSV with the canonical
// column set, regardless of what headers the source used.
type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (t *CsvRenderer) Render(rows []schedule.Row) (string, error) {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, []string{"date", "event", "school", "notes"})
	for _, row := range rows {
		data = append(data, []string{row.DayKey(), row.Event, row.School, row.Notes})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, record := range data {
		err := writer.Write(record)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
