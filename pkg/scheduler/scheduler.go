// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/validator"
	"gorm.io/gorm"
)

// Scheduler handles periodic catalog re-indexing
type Scheduler struct {
	db        *gorm.DB
	directory string
	interval  time.Duration
	validator *validator.Validator
	logger    *slog.Logger
	stopChan  chan bool
	stopOnce  sync.Once
	runs      chan *catalog.Result
}

// NewScheduler creates a new scheduler that re-indexes directory every interval
func NewScheduler(db *gorm.DB, directory string, interval time.Duration, v *validator.Validator, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:        db,
		directory: directory,
		interval:  interval,
		validator: v,
		logger:    logger,
		stopChan:  make(chan bool),
	}
}

// NewMinuteScheduler creates a scheduler with an interval in minutes
func NewMinuteScheduler(db *gorm.DB, directory string, intervalMinutes int, v *validator.Validator, logger *slog.Logger) *Scheduler {
	return NewScheduler(db, directory, time.Duration(intervalMinutes)*time.Minute, v, logger)
}

// Runs returns a channel receiving the result of each completed run. It must be called before Start.
func (s *Scheduler) Runs() <-chan *catalog.Result {
	if s.runs == nil {
		s.runs = make(chan *catalog.Result, 1)
	}
	return s.runs
}

// Start indexes once, then begins the ticker
func (s *Scheduler) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		s.reindex()
		for {
			select {
			case <-ticker.C:
				s.reindex()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the scheduler. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// reindex runs one catalog pass, cancelled when the scheduler stops
func (s *Scheduler) reindex() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := catalog.Index(ctx, s.db, s.directory, catalog.Options{
		Validator: s.validator,
		Logger:    s.logger,
	})
	if err != nil {
		s.logger.Error("failed to re-index catalog", "dir", s.directory, "error", err)
		return
	}

	if s.runs != nil {
		select {
		case s.runs <- result:
		default:
		}
	}
}
