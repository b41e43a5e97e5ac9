package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/forgo/fetch/api/internal/service"
)

// FavoriteSweeper periodically removes favorites whose request has been
// deleted. Request deletion cascades over favorites in the same transaction,
// so the sweeper only catches leftovers from out of band writes.
type FavoriteSweeper struct {
	favoriteService *service.FavoriteService
	interval        time.Duration
	stopCh          chan struct{}
	wg              sync.WaitGroup
	running         bool
	mu              sync.Mutex
}

// NewFavoriteSweeper creates a new favorite sweeper job
func NewFavoriteSweeper(favoriteService *service.FavoriteService, interval time.Duration) *FavoriteSweeper {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &FavoriteSweeper{
		favoriteService: favoriteService,
		interval:        interval,
		stopCh:          make(chan struct{}),
	}
}

// Start begins the favorite sweeper job
func (s *FavoriteSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	log.Printf("Favorite sweeper started (interval: %v)", s.interval)
}

// Stop gracefully stops the favorite sweeper job
func (s *FavoriteSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	log.Println("Favorite sweeper stopped")
}

// run is the main loop
func (s *FavoriteSweeper) run() {
	defer s.wg.Done()

	// Run immediately on start (but with a short delay to let services initialize)
	time.Sleep(5 * time.Second)
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep runs one sweep pass
func (s *FavoriteSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := s.favoriteService.SweepOrphaned(ctx)
	if err != nil {
		log.Printf("Error sweeping orphaned favorites: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Swept %d orphaned favorites", deleted)
	}
}

// RunOnce runs the sweep once (for testing or manual trigger)
func (s *FavoriteSweeper) RunOnce(ctx context.Context) (int, error) {
	return s.favoriteService.SweepOrphaned(ctx)
}

// IsRunning returns whether the sweeper is running
func (s *FavoriteSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
