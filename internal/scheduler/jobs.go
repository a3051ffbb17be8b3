package scheduler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/config"
)

type StandingsSweeper interface {
	SweepDirty(ctx context.Context) error
}

type ProposalConfirmer interface {
	AutoConfirmStale(ctx context.Context) (int, error)
}

type MakeupNotifier interface {
	NotifyOverdueMakeups(ctx context.Context) (int, error)
}

// LeagueJobs are the background chores of the league engine.
type LeagueJobs struct {
	Standings StandingsSweeper
	Proposals ProposalConfirmer
	Makeups   MakeupNotifier
}

// RegisterLeagueJobs adds every job whose cron expression is set.
func (s *Service) RegisterLeagueJobs(cfg config.JobsConfig, jobs LeagueJobs) error {
	if jobs.Standings == nil || jobs.Proposals == nil || jobs.Makeups == nil {
		return errors.New("league jobs require standings, proposal and makeup handlers")
	}

	registrations := []struct {
		name string
		expr string
		task Task
	}{
		{
			name: "standings_sweep",
			expr: cfg.StandingsSweep,
			task: jobs.Standings.SweepDirty,
		},
		{
			name: "auto_confirm_stale_proposals",
			expr: cfg.AutoConfirm,
			task: func(ctx context.Context) error {
				count, err := jobs.Proposals.AutoConfirmStale(ctx)
				if count > 0 {
					log.Ctx(ctx).Info().Int("finalized", count).Msg("Auto-confirmed stale proposals")
				}
				return err
			},
		},
		{
			name: "makeup_deadline_notices",
			expr: cfg.MakeupNotices,
			task: func(ctx context.Context) error {
				count, err := jobs.Makeups.NotifyOverdueMakeups(ctx)
				if count > 0 {
					log.Ctx(ctx).Info().Int("notified", count).Msg("Sent overdue makeup notices")
				}
				return err
			},
		},
	}

	for _, reg := range registrations {
		if reg.expr == "" {
			log.Info().Str("job_name", reg.name).Msg("Scheduler job disabled")
			continue
		}
		if _, err := s.AddJob(reg.name, reg.expr, 0, reg.task); err != nil {
			return err
		}
	}
	return nil
}
