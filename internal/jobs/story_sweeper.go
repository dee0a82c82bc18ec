// Package jobs holds background work that runs beside the HTTP server.
package jobs

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// StorySweeper purges expired stories on an interval. Expired stories are
// already hidden from every read, so the sweep only reclaims storage.
type StorySweeper struct {
	stories  repositories.StoryRepository
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewStorySweeper creates a new StorySweeper
func NewStorySweeper(stories repositories.StoryRepository, interval time.Duration, log zerolog.Logger) *StorySweeper {
	return &StorySweeper{
		stories:  stories,
		interval: interval,
		log:      log.With().Str("component", "story_sweeper").Logger(),
		now:      time.Now,
	}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *StorySweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("story sweeping disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep purges the stories expired now and returns how many were removed.
func (s *StorySweeper) Sweep(ctx context.Context) int {
	purged, err := s.stories.DeleteExpiredStories(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("purging expired stories")
		return 0
	}
	if purged > 0 {
		metrics.StoriesPurged.Add(float64(purged))
		s.log.Info().Int("purged", purged).Msg("expired stories purged")
	}
	return purged
}
