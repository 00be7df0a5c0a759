// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketmine/internal/recommend"
)

type fakeTrainer struct {
	calls int64
	err   error
}

func (f *fakeTrainer) Train(_ context.Context) error {
	atomic.AddInt64(&f.calls, 1)
	return f.err
}

func (f *fakeTrainer) count() int64 {
	return atomic.LoadInt64(&f.calls)
}

func TestTrainOnStartup(t *testing.T) {
	trainer := &fakeTrainer{}
	svc := NewTrainService(trainer, TrainServiceConfig{TrainOnStartup: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return trainer.count() == 1 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}

func TestNoStartupTraining(t *testing.T) {
	trainer := &fakeTrainer{}
	svc := NewTrainService(trainer, TrainServiceConfig{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if got := trainer.count(); got != 0 {
		t.Errorf("Train called %d times, want 0", got)
	}
}

func TestScheduledTraining(t *testing.T) {
	trainer := &fakeTrainer{}
	svc := NewTrainService(trainer, TrainServiceConfig{TrainInterval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return trainer.count() >= 2 })
	cancel()
	<-done
}

func TestTrainingInProgressNotAFailure(t *testing.T) {
	trainer := &fakeTrainer{err: recommend.ErrTrainingInProgress}
	svc := NewTrainService(trainer, TrainServiceConfig{}, zerolog.Nop())

	if err := svc.train(context.Background()); err != nil {
		t.Errorf("train() = %v, want nil for in-progress skip", err)
	}
}

func TestTrainingErrorPropagates(t *testing.T) {
	wantErr := errors.New("source unavailable")
	trainer := &fakeTrainer{err: wantErr}
	svc := NewTrainService(trainer, TrainServiceConfig{}, zerolog.Nop())

	if err := svc.train(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("train() = %v, want %v", err, wantErr)
	}
}

func TestTrainServiceString(t *testing.T) {
	svc := NewTrainService(&fakeTrainer{}, TrainServiceConfig{}, zerolog.Nop())
	if got := svc.String(); got != "train-service" {
		t.Errorf("String() = %q, want train-service", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not reached within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
