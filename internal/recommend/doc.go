// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

/*
Package recommend coordinates the training pipeline and serves basket
recommendations from the trained model.

# Overview

The Engine owns the full model lifecycle:

  - Train runs the mining pipeline (encode, build, mine, generate rules),
    persists the resulting artifact, and atomically swaps the in-memory
    rule index.
  - Recommend answers lookups against whichever model is currently
    published. Lookups never block on training.
  - LoadLatest restores the most recent persisted artifact on startup so
    the service can serve immediately after a restart.

# Concurrency

The published model is an immutable bundle behind an atomic pointer.
Readers load the pointer once per request and never observe a partially
built model. At most one training run executes at a time; a second Train
call while one is in flight returns ErrTrainingInProgress rather than
queueing.

# Readiness

Before any model has been trained or loaded, Recommend returns
ErrNotReady. A trained model that simply has no matching rules for a
basket returns an empty recommendation list, which is a valid answer,
not an error.
*/
package recommend
