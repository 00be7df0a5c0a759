// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

// Package storage persists training artifacts (frequent itemsets and
// association rules) in BadgerDB.
//
// # Storage Format
//
// Each training run is saved under a monotonically increasing model
// version. The artifact payload is JSON, wrapped in an envelope carrying
// a schema version tag and a SHA-256 checksum. Loads verify both and fail
// fast on mismatch; a corrupted or stale artifact never silently degrades
// to an empty index.
//
// # Keys
//
//	artifact:v<version>  envelope for one training run
//	artifact:latest      decimal version of the newest artifact
//
// # Thread Safety
//
// All operations run inside Badger transactions; the store is safe for
// concurrent use.
package storage
