// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketmine/internal/recommend"
)

// trainTimeout bounds a single training run.
const trainTimeout = 30 * time.Minute

// Trainer is the part of the engine the scheduler needs.
type Trainer interface {
	Train(ctx context.Context) error
}

// TrainServiceConfig holds configuration for the training scheduler.
type TrainServiceConfig struct {
	// TrainOnStartup triggers a training run when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables the
	// schedule; the service then only handles the startup run and
	// waits for shutdown.
	TrainInterval time.Duration
}

// TrainService runs the retraining schedule under supervision.
type TrainService struct {
	trainer Trainer
	config  TrainServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainService creates a training scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(trainer Trainer, cfg TrainServiceConfig, logger zerolog.Logger) *TrainService {
	return &TrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "train").Logger(),
		name:    "train-service",
	}
}

// Serve implements suture.Service.
func (s *TrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training scheduler starting")

	if s.config.TrainOnStartup {
		if err := s.train(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup training failed (will retry on schedule)")
		}
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed")
			}
		}
	}
}

func (s *TrainService) train(ctx context.Context) error {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()
	err := s.trainer.Train(trainCtx)
	if err != nil {
		// A manually triggered run may already hold the lock; that is
		// not a scheduler failure.
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			s.logger.Debug().Msg("skipping scheduled run, training already in progress")
			return nil
		}
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("scheduled training complete")

	return nil
}

// String returns the service name for supervision logs.
func (s *TrainService) String() string {
	return s.name
}
