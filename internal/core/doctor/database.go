package doctor

import (
	"context"
	"fmt"

	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

// DatabaseCheck verifies the journal database is reachable and migrated.
type DatabaseCheck struct {
	db *db.DB
}

// NewDatabaseCheck creates a database check. database may be nil when the
// database could not be opened.
func NewDatabaseCheck(database *db.DB) *DatabaseCheck {
	return &DatabaseCheck{db: database}
}

func (c *DatabaseCheck) Name() string {
	return "Journal database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.db == nil {
		result.Items = append(result.Items, fail("Connection", "database not open"))
		return result
	}

	if err := c.db.Conn().PingContext(ctx); err != nil {
		result.Items = append(result.Items, fail("Connection", err.Error()))
		return result
	}
	result.Items = append(result.Items, pass("Connection", c.db.Path()))

	latest, err := db.LatestVersion()
	if err != nil {
		result.Items = append(result.Items, fail("Schema", err.Error()))
		return result
	}
	applied, err := db.Applied(ctx, c.db.Conn())
	if err != nil {
		result.Items = append(result.Items, fail("Schema", err.Error()))
		return result
	}

	current := 0
	if len(applied) > 0 {
		current = applied[len(applied)-1].Version
	}
	switch {
	case current == latest:
		result.Items = append(result.Items, pass("Schema", fmt.Sprintf("version %d", current)))
	case current > latest:
		result.Items = append(result.Items, warn("Schema", fmt.Sprintf("version %d is newer than this build (%d)", current, latest)))
	default:
		result.Items = append(result.Items, fail("Schema", fmt.Sprintf("version %d, expected %d", current, latest)))
	}
	return result
}
