// Package jobs implements background job processing for the Fetch API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - FavoriteSweeper: Periodic removal of favorites whose request is gone
//
// # Lifecycle
//
// Jobs run on a ticker and are started and stopped from main:
//
//	sweeper := jobs.NewFavoriteSweeper(favoriteService, interval)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application. A failed pass is
// retried on the next tick.
package jobs
