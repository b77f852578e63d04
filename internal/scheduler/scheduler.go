package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
	"github.com/Dowline1/SurfSmart-AI/internal/store"
)

// Scheduler periodically collects conditions for the configured surf spots
// and records them in the store. Only the collection stages run here; no
// image or synthesis is involved.
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *forecast.Engine
	store     *store.MemoryStore
	spots     []forecast.Spot
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a Scheduler.
func New(spots []forecast.Spot, interval time.Duration, engine *forecast.Engine, st *store.MemoryStore, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		engine:    engine,
		store:     st,
		spots:     spots,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if len(s.spots) == 0 {
		s.log.Info("scheduler: no spots configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.log.Debug("scheduler: running condition refresh job")

		var wg sync.WaitGroup
		for _, spot := range s.spots {
			spot := spot
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				cond := s.engine.Collect(ctx, spot.Name, spot.Coords)
				s.store.SaveConditions(cond)
			}()
		}
		wg.Wait()
		s.log.Debug("scheduler: completed condition refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
