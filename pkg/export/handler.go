package export

import (
	"fmt"
	"net/http"

	"github.com/schoolcal/schoolcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service schedule.Service
	ics     *IcsRenderer
	csv     *CsvRenderer
}

func NewHandler(service schedule.Service, ics *IcsRenderer, csv *CsvRenderer) *Handler {
	return &Handler{service: service, ics: ics, csv: csv}
}

func filterFromQuery(r *http.Request) schedule.Filter {
	q := r.URL.Query()
	return schedule.Filter{
		Search: q.Get("search"),
		School: q.Get("school"),
		Event:  q.Get("event"),
	}
}

// GetICS serves the (optionally filtered) schedule as an iCalendar feed
// suitable for calendar subscriptions.
func (h *Handler) GetICS(w http.ResponseWriter, r *http.Request) {
	rows := h.service.Events(r.Context(), filterFromQuery(r))

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if _, err := fmt.Fprint(w, h.ics.Render(rows)); err != nil {
		log.Errorf("Error writing ICS response: %v", err)
	}
}

// GetCSV serves the normalized schedule as a CSV download.
func (h *Handler) GetCSV(w http.ResponseWriter, r *http.Request) {
	rows := h.service.Events(r.Context(), filterFromQuery(r))

	rendered, err := h.csv.Render(rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=no-school-days.csv`)
	if _, err := fmt.Fprint(w, rendered); err != nil {
		log.Errorf("Error writing CSV response: %v", err)
	}
}
