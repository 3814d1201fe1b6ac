package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockfolio/internal/database"
)

// MaintenanceJob checkpoints the WAL and verifies integrity of every
// database. WAL files grow without bound on write-heavy days otherwise.
type MaintenanceJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job over the given databases
func NewMaintenanceJob(databases []*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		log:       log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database-maintenance"
}

// Run checkpoints and health-checks every database. The first failure aborts
// the run so a corrupted database surfaces in the job log.
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, db := range j.databases {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}

		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}

		j.log.Debug().Str("database", db.Name()).Msg("Checkpoint and integrity check passed")
	}

	return nil
}
