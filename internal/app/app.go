package app

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"timetable-export/internal/config"
	transport "timetable-export/internal/http"
	"timetable-export/internal/http/handlers"
	"timetable-export/internal/logger"
	"timetable-export/internal/metrics"
	"timetable-export/internal/service"
	"timetable-export/internal/store"
)

type App struct {
	handler       http.Handler
	exportService *service.ExportService
}

// New wires the export pipeline: assignment source, artifact store,
// services and HTTP handlers. The db may be nil, in which case
// artifacts are kept in memory.
func New(cfg *config.Config, db *sql.DB, sink metrics.Recorder) (*App, error) {
	source, err := newSource(cfg.Solver)
	if err != nil {
		return nil, err
	}

	var artifacts store.ArtifactStore
	if db != nil {
		artifacts = store.NewPostgresStore(db, cfg.Store)
	} else {
		artifacts = store.NewMemoryStore(cfg.Store)
	}

	exportService := service.NewExportService(
		source,
		artifacts,
		cfg.Layout,
		time.Duration(cfg.Solver.TimeoutSeconds)*time.Second,
		logger.New("export", cfg.Logging.Level),
		sink,
	)

	exportHandler := handlers.NewExportHandler(exportService, cfg.HTTP.RespondJSON, logger.New("http", cfg.Logging.Level))
	uploadHandler := handlers.NewUploadHandler(cfg.Uploads.Dir, logger.New("upload", cfg.Logging.Level))
	router := transport.NewRouter(exportHandler, uploadHandler)

	return &App{handler: router.Handler(), exportService: exportService}, nil
}

func newSource(cfg config.SolverConfig) (service.AssignmentSource, error) {
	switch {
	case cfg.BaseURL != "":
		return service.NewSolverHTTPClient(cfg.BaseURL, service.DefaultSolverHTTPClient()), nil
	case cfg.AssignmentsFile != "":
		return service.FileSource{Path: cfg.AssignmentsFile}, nil
	default:
		return nil, errors.New("solver: base_url or assignments_file is required")
	}
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) ExportService() *service.ExportService {
	return a.exportService
}
