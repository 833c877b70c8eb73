package scheduler

import (
	"context"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/template"
	"relationship_engine/internal/engine"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// sweepAnchors are the anchors the daily job runs. The reactive
// occurrence_followup anchor is excluded: it only fires from the
// occurrence-creation trigger.
var sweepAnchors = []anchor.EventCode{
	anchor.EventSaleClose,
	anchor.EventFirstWorkout,
	anchor.EventRenewalWindow,
	anchor.EventBirthday,
	anchor.EventTrainingFollowup,
}

// SweepScheduler drives the daily anchor sweep across all configured
// organizations.
type SweepScheduler struct {
	cronEngine     *cron.Cron
	factory        *engine.Factory
	templates      template.Repository
	logger         *logrus.Logger
	orgIDs         []string
	cronSpecDaily  string
	followupTarget int
}

func NewSweepScheduler(
	factory *engine.Factory,
	templates template.Repository,
	logger *logrus.Logger,
	orgIDs []string,
	cronSpecDaily string, // e.g. "0 8 * * *" (08:00 daily)
	followupTargetDays int,
) *SweepScheduler {
	return &SweepScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		factory:        factory,
		templates:      templates,
		logger:         logger,
		orgIDs:         orgIDs,
		cronSpecDaily:  cronSpecDaily,
		followupTarget: followupTargetDays,
	}
}

func (s *SweepScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("daily anchor sweep triggered")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		s.RunSweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("sweep scheduler started (%d organizations, spec %q)", len(s.orgIDs), s.cronSpecDaily)
	return nil
}

// RunSweep executes every sweep anchor for every configured organization.
// One organization's failure never aborts the others.
func (s *SweepScheduler) RunSweep(ctx context.Context) {
	cfg := &anchor.Config{
		AdditionalFilters: map[string]any{"target_days": s.followupTarget},
	}
	for _, orgID := range s.orgIDs {
		templates, err := s.templates.ListActive(ctx, orgID)
		if err != nil {
			s.logger.WithField("org_id", orgID).Errorf("template fetch failed, skipping organization: %v", err)
			continue
		}

		results := s.factory.ExecuteMultipleStrategies(ctx, sweepAnchors, orgID, templates, cfg)
		consolidated := engine.ConsolidateStats(results)
		s.logger.WithFields(logrus.Fields{
			"org_id":         orgID,
			"students_found": consolidated.Total.StudentsFound,
			"tasks_created":  consolidated.Total.TasksCreated,
			"tasks_skipped":  consolidated.Total.TasksSkipped,
			"strategies_ok":  consolidated.Succeeded,
			"strategies_err": consolidated.Failed,
		}).Info("daily sweep finished for organization")
	}
}

func (s *SweepScheduler) Stop() {
	s.logger.Info("stopping sweep scheduler...")
	ctx := s.cronEngine.Stop() // Stops new jobs, waits for running ones.
	<-ctx.Done()
	s.logger.Info("sweep scheduler gracefully stopped")
}
