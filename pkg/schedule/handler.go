package schedule

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/schoolcal/schoolcal/internal/rest"
	"github.com/schoolcal/schoolcal/internal/utils"
	log "github.com/sirupsen/logrus"
)

type RowDTO struct {
	Date   string `json:"date"`
	Event  string `json:"event"`
	School string `json:"school"`
	Notes  string `json:"notes,omitempty"`
	Style  string `json:"style"`
}

type DayDTO struct {
	Date    string   `json:"date"`
	Weekday string   `json:"weekday"`
	InMonth bool     `json:"inMonth"`
	Today   bool     `json:"today"`
	Events  []RowDTO `json:"events"`
}

type WeekDTO struct {
	Label string   `json:"label,omitempty"`
	Focus bool     `json:"focus"`
	Days  []DayDTO `json:"days"`
}

type StripDTO struct {
	Anchor string    `json:"anchor"`
	Weeks  []WeekDTO `json:"weeks"`
}

type MonthDTO struct {
	Year      int       `json:"year"`
	Month     string    `json:"month"`
	FocusWeek int       `json:"focusWeek"`
	Weeks     []WeekDTO `json:"weeks"`
}

type FacetsDTO struct {
	Schools    []string `json:"schools"`
	EventTypes []string `json:"eventTypes"`
}

type StatusDTO struct {
	LoadID   string `json:"loadId"`
	LoadedAt string `json:"loadedAt,omitempty"`
	Source   string `json:"source"`
	Warning  string `json:"warning,omitempty"`
	RowCount int    `json:"rowCount"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service, clock}
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Search: q.Get("search"),
		School: q.Get("school"),
		Event:  q.Get("event"),
	}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing schedule events")

	rows := h.service.Events(r.Context(), filterFromQuery(r))
	dtos := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, h.rowToDTO(row))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetFacets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	facets := h.service.Facets(r.Context())
	dto := FacetsDTO{Schools: facets.Schools, EventTypes: facets.EventTypes}
	if dto.Schools == nil {
		dto.Schools = []string{}
	}
	if dto.EventTypes == nil {
		dto.EventTypes = []string{}
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetStrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	anchor, ok := h.parseAnchor(w, r)
	if !ok {
		return
	}
	strip := h.service.WeekStrip(r.Context(), anchor, filterFromQuery(r))

	dto := StripDTO{Anchor: strip.Anchor.Format(DayKeyLayout)}
	for _, week := range strip.Weeks {
		dto.Weeks = append(dto.Weeks, h.weekToDTO(week))
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	anchor, ok := h.parseAnchor(w, r)
	if !ok {
		return
	}
	month := h.service.MonthGrid(r.Context(), anchor, filterFromQuery(r))

	dto := MonthDTO{
		Year:      month.Year,
		Month:     month.Month.String(),
		FocusWeek: month.FocusWeek,
	}
	for _, week := range month.Weeks {
		dto.Weeks = append(dto.Weeks, h.weekToDTO(week))
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(statusToDTO(h.service.Status(r.Context()))); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Manual schedule refresh requested")

	h.service.Refresh(r.Context())

	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(statusToDTO(h.service.Status(r.Context()))); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// parseAnchor resolves the effective anchor day: the date query parameter when
// present and valid, today otherwise. The bool result is false only when an
// error response has already been written.
func (h *Handler) parseAnchor(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.clock.Today(), true
	}
	anchor, err := time.ParseInLocation(DayKeyLayout, raw, time.Local)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return anchor, true
}

func (h *Handler) rowToDTO(row Row) RowDTO {
	return RowDTO{
		Date:   row.DayKey(),
		Event:  row.Event,
		School: row.School,
		Notes:  row.Notes,
		Style:  h.service.StyleFor(row.Event),
	}
}

func (h *Handler) weekToDTO(week Week) WeekDTO {
	dto := WeekDTO{Label: week.Label, Focus: week.Focus}
	for _, day := range week.Days {
		dayDTO := DayDTO{
			Date:    day.Key,
			Weekday: day.Date.Weekday().String(),
			InMonth: day.InMonth,
			Today:   day.Today,
			Events:  make([]RowDTO, 0, len(day.Events)),
		}
		for _, row := range day.Events {
			dayDTO.Events = append(dayDTO.Events, h.rowToDTO(row))
		}
		dto.Days = append(dto.Days, dayDTO)
	}
	return dto
}

func statusToDTO(status Status) StatusDTO {
	dto := StatusDTO{
		LoadID:   status.LoadID,
		Source:   string(status.Source),
		Warning:  status.Warning,
		RowCount: status.RowCount,
	}
	if !status.LoadedAt.IsZero() {
		dto.LoadedAt = status.LoadedAt.Format(time.RFC3339)
	}
	return dto
}
