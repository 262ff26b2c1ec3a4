// Package curator wires the curation backend, the local journal and the
// comment navigator into the services used by commands and the TUI.
package curator

import (
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

// Backend is everything curator needs from the pipeline API.
type Backend interface {
	comments.Service
	curation.Service
}

// App is the central entry point for all curator operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Curation *CurationService
	Analyzer *Analyzer
	Comments comments.Service

	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies. database may be nil
// when the caller only needs read access to the backend.
func NewApp(backend Backend, journal curation.Journal, cfg *config.Config, database *db.DB) *App {
	return &App{
		Curation: NewCurationService(backend, journal),
		Analyzer: NewAnalyzer(backend),
		Comments: backend,
		Config:   cfg,
		DB:       database,
	}
}

// NewNavigator starts a comment navigator scoped to the given months.
func (a *App) NewNavigator(months []string) *comments.Navigator {
	return comments.NewNavigator(a.Comments, months)
}

// DefaultRequest builds an analysis request from the configured defaults.
func (a *App) DefaultRequest(field curation.Field, months []string) curation.AnalysisRequest {
	return curation.AnalysisRequest{
		Field:       field,
		Months:      months,
		Threshold:   a.Config.Analysis.Threshold,
		Limit:       a.Config.Analysis.Limit,
		DisplayMode: a.Config.Analysis.DisplayMode,
	}
}
