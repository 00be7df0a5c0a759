// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	artifactKeyPrefix = "artifact:v"
	latestKey         = "artifact:latest"
)

// Sentinel errors distinguish "nothing trained yet" from a genuinely
// broken artifact.
var (
	// ErrNoArtifact means the store holds no trained artifact.
	ErrNoArtifact = errors.New("no artifact in store")

	// ErrSchemaMismatch means the artifact was written under a different
	// schema version and cannot be loaded.
	ErrSchemaMismatch = errors.New("artifact schema version mismatch")

	// ErrChecksumMismatch means the artifact payload is corrupted.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// Store persists training artifacts in BadgerDB.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) a Badger-backed artifact store at path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger: logger.With().Str("component", "badger").Logger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	return NewStore(db, logger), nil
}

// NewStore wraps an existing Badger database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(db *badger.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "storage").Logger(),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists an artifact under the next model version and advances the
// latest pointer atomically. The assigned version is written back into
// the artifact and returned.
func (s *Store) Save(ctx context.Context, art *Artifact) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var version int
	err := s.db.Update(func(txn *badger.Txn) error {
		latest, err := readLatest(txn)
		if err != nil && !errors.Is(err, ErrNoArtifact) {
			return err
		}
		version = latest + 1

		art.SchemaVersion = SchemaVersion
		art.ModelVersion = version

		payload, err := json.Marshal(art)
		if err != nil {
			return fmt.Errorf("marshal artifact: %w", err)
		}
		sum := sha256.Sum256(payload)
		env, err := json.Marshal(envelope{
			SchemaVersion: SchemaVersion,
			Checksum:      hex.EncodeToString(sum[:]),
			Payload:       payload,
		})
		if err != nil {
			return fmt.Errorf("marshal envelope: %w", err)
		}

		if err := txn.Set(versionKey(version), env); err != nil {
			return fmt.Errorf("set artifact: %w", err)
		}
		if err := txn.Set([]byte(latestKey), []byte(strconv.Itoa(version))); err != nil {
			return fmt.Errorf("set latest pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int("model_version", version).
		Int("itemsets", len(art.Itemsets)).
		Int("rules", len(art.Rules)).
		Msg("artifact saved")
	return version, nil
}

// LoadLatest loads the newest artifact. Returns ErrNoArtifact when the
// store is empty, ErrSchemaMismatch or ErrChecksumMismatch when the
// stored artifact cannot be trusted.
func (s *Store) LoadLatest(ctx context.Context) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var art *Artifact
	err := s.db.View(func(txn *badger.Txn) error {
		version, err := readLatest(txn)
		if err != nil {
			return err
		}
		art, err = readArtifact(txn, version)
		return err
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// LoadVersion loads a specific model version.
func (s *Store) LoadVersion(ctx context.Context, version int) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var art *Artifact
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		art, err = readArtifact(txn, version)
		return err
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// Versions lists all stored model versions in ascending order.
func (s *Store) Versions(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var versions []int
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(artifactKeyPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			v, err := strconv.Atoi(strings.TrimPrefix(key, artifactKeyPrefix))
			if err != nil {
				continue
			}
			versions = append(versions, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Ints(versions)
	return versions, nil
}

// Prune deletes old artifacts, keeping the newest keep versions. The
// latest pointer is never invalidated.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	versions, err := s.Versions(ctx)
	if err != nil {
		return err
	}
	if len(versions) <= keep {
		return nil
	}

	doomed := versions[:len(versions)-keep]
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, v := range doomed {
			if err := txn.Delete(versionKey(v)); err != nil {
				return fmt.Errorf("delete artifact v%d: %w", v, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Ints("versions", doomed).Msg("pruned old artifacts")
	return nil
}

func versionKey(version int) []byte {
	return []byte(artifactKeyPrefix + strconv.Itoa(version))
}

// readLatest resolves the latest pointer within a transaction.
func readLatest(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(latestKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNoArtifact
	}
	if err != nil {
		return 0, fmt.Errorf("get latest pointer: %w", err)
	}

	var version int
	err = item.Value(func(val []byte) error {
		v, convErr := strconv.Atoi(string(val))
		if convErr != nil {
			return fmt.Errorf("parse latest pointer %q: %w", val, convErr)
		}
		version = v
		return nil
	})
	return version, err
}

// readArtifact loads and verifies one version within a transaction.
func readArtifact(txn *badger.Txn, version int) (*Artifact, error) {
	item, err := txn.Get(versionKey(version))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoArtifact
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact v%d: %w", version, err)
	}

	var art Artifact
	err = item.Value(func(val []byte) error {
		var env envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return fmt.Errorf("unmarshal envelope: %w", err)
		}
		if env.SchemaVersion != SchemaVersion {
			return fmt.Errorf("%w: stored %d, supported %d",
				ErrSchemaMismatch, env.SchemaVersion, SchemaVersion)
		}
		sum := sha256.Sum256(env.Payload)
		if hex.EncodeToString(sum[:]) != env.Checksum {
			return ErrChecksumMismatch
		}
		if err := json.Unmarshal(env.Payload, &art); err != nil {
			return fmt.Errorf("unmarshal artifact: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// badgerLogger adapts zerolog to Badger's logger interface.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
