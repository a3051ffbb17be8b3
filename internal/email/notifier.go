package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/verification"
)

const (
	defaultSendTimeout = 5 * time.Second
	maxParallelSends   = 4
)

// Notifier emails match notices to the players they name. Players without
// an address are skipped.
type Notifier struct {
	queries dbgen.Querier
	sender  EmailSender
	from    string
	timeout time.Duration
}

func NewNotifier(queries dbgen.Querier, sender EmailSender, from string) (*Notifier, error) {
	if queries == nil {
		return nil, errors.New("email notifier requires queries")
	}
	if sender == nil {
		return nil, errors.New("email notifier requires a sender")
	}
	return &Notifier{queries: queries, sender: sender, from: from, timeout: defaultSendTimeout}, nil
}

var _ verification.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx context.Context, notice verification.Notice) error {
	// Recipients load and sends both run past the caller's cancellation.
	ctx = context.WithoutCancel(ctx)
	message, err := BuildNotice(notice)
	if err != nil {
		return err
	}
	players, err := models.GetPlayers(ctx, n.queries, notice.Recipients)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}

	logger := log.Ctx(ctx).With().
		Str("component", "email_notifier").
		Int64("match_id", notice.MatchID).
		Str("notice", string(notice.Kind)).
		Logger()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelSends)
	errs := make([]error, len(players))
	sent := 0
	for idx, player := range players {
		recipient := strings.TrimSpace(player.Email)
		if recipient == "" {
			logger.Debug().Int64("player_id", player.ID).Msg("Player has no email address")
			continue
		}
		sent++
		group.Go(func() error {
			sendCtx, cancel := newEmailContext(groupCtx, n.timeout)
			defer cancel()
			if err := n.sender.SendFrom(sendCtx, recipient, message.Subject, message.Body, n.from); err != nil {
				errs[idx] = fmt.Errorf("notify player %d: %w", player.ID, err)
			}
			return nil
		})
	}
	_ = group.Wait()

	err = errors.Join(errs...)
	if err != nil {
		logger.Warn().Err(err).Msg("Some match notices were not delivered")
		return err
	}
	logger.Info().Int("recipients", sent).Msg("Match notice sent")
	return nil
}
