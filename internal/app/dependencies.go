package app

import (
	"time"

	"github.com/schoolcal/schoolcal/internal/bus"
	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/schoolcal/schoolcal/internal/utils"
	"github.com/schoolcal/schoolcal/pkg/dategrid"
	"github.com/schoolcal/schoolcal/pkg/export"
	"github.com/schoolcal/schoolcal/pkg/loader"
	"github.com/schoolcal/schoolcal/pkg/schedule"
	"github.com/schoolcal/schoolcal/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *bus.Bus
	Clock utils.Clock

	Store      *schedule.Store
	Normalizer *schedule.Normalizer

	Snapshot *snapshot.Storage

	Fetcher loader.Fetcher
	Loader  *loader.Loader
	Runner  *loader.Runner

	ScheduleService *schedule.ServiceImpl
	ScheduleHandler *schedule.Handler

	IcsRenderer   *export.IcsRenderer
	CsvRenderer   *export.CsvRenderer
	ExportHandler *export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	weekStart, err := dategrid.ParseWeekStart(cfg.Calendar.WeekStart)
	if err != nil {
		return nil, err
	}

	deps.Bus = bus.New()
	deps.Clock = utils.SystemClock{}

	deps.Store = schedule.NewStore()
	deps.Normalizer = schedule.NewNormalizer(cfg.Columns)

	var cache loader.Cache
	if cfg.Snapshot.Path != "" {
		store, err := snapshot.Open(cfg.Snapshot.Path)
		if err != nil {
			return nil, err
		}
		store.SubscribeTo(deps.Bus)
		deps.Snapshot = store
		cache = store
	} else {
		log.Info("Snapshot cache disabled (no path configured)")
	}

	deps.Fetcher = loader.NewHTTPFetcher(cfg.Source.URL, time.Duration(cfg.Source.TimeoutMs)*time.Millisecond)
	deps.Loader = loader.New(deps.Fetcher, deps.Normalizer, deps.Store, deps.Bus, cache, deps.Clock, cfg.SourceConfigured())
	deps.Runner = loader.NewRunner(deps.Loader, time.Duration(cfg.Source.RefreshIntervalMs)*time.Millisecond)

	deps.ScheduleService = schedule.NewService(deps.Store, deps.Loader, deps.Clock, weekStart, cfg.Styles)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.Clock)

	deps.IcsRenderer = export.NewIcsRenderer(deps.Clock)
	deps.CsvRenderer = export.NewCsvRenderer()
	deps.ExportHandler = export.NewHandler(deps.ScheduleService, deps.IcsRenderer, deps.CsvRenderer)

	return deps, nil
}
