package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/avelichka/skycast/internal/weather"
)

// Pruner removes expired cache entries.
type Pruner interface {
	Prune() int
}

// Scheduler keeps the report cache warm for configured cities and prunes
// expired entries. It never touches session or credential state; request
// handling stays synchronous regardless of this job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cache     Pruner
	cities    []string
	interval  time.Duration
}

// New creates a Scheduler. cache may be nil when no cache is configured.
func New(cities []string, interval time.Duration, service *weather.Service, cache Pruner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		cache:     cache,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 && s.cache == nil {
		log.Println("scheduler: nothing to do; not starting")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if s.cache != nil {
			if removed := s.cache.Prune(); removed > 0 {
				log.Printf("scheduler: pruned %d expired reports", removed)
			}
		}

		var wg sync.WaitGroup
		for _, city := range s.cities {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Refresh(ctx, city); err != nil {
					log.Printf("scheduler: refresh failed for %q: %v", city, err)
				}
			}()
		}
		wg.Wait()
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
