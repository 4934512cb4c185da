package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/league"
)

const refreshJobTimeout = 30 * time.Second

// RegisterDirectoryRefresh keeps the team directory cache warm so team
// selects and public pages don't pay an upstream round trip on first hit
// after startup or after roster changes.
func RegisterDirectoryRefresh(directory *league.Directory, interval time.Duration) error {
	if directory == nil {
		return fmt.Errorf("directory refresh job requires directory")
	}

	jobName := "team_directory_refresh"
	jobLogger := log.With().
		Str("component", "team_directory_refresh_job").
		Str("job_name", jobName).
		Logger()

	_, err := AddIntervalJob(jobName, interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if err := directory.Refresh(ctx); err != nil {
			jobLogger.Warn().Err(err).Msg("Team directory refresh failed")
			return
		}
		jobLogger.Debug().Msg("Team directory refreshed")
	})
	return err
}
