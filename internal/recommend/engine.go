// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketmine/internal/metrics"
	"github.com/tomtom215/basketmine/internal/mining"
	"github.com/tomtom215/basketmine/internal/rules"
	"github.com/tomtom215/basketmine/internal/storage"
)

var (
	// ErrNotReady means no model has been trained or loaded yet.
	ErrNotReady = errors.New("no trained model available")

	// ErrTrainingInProgress means a training run is already executing.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// model is one immutable published model. Lookups read whichever model
// the pointer holds; training builds a complete replacement before the
// swap, so readers never see partial state.
type model struct {
	index        *rules.Index
	itemsets     []mining.Itemset
	transactions int
	dropped      int
}

// Engine owns the model lifecycle: training, persistence, and lookups.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	store  *storage.Store
	source TransactionSource

	current atomic.Pointer[model]

	// trainMu serializes training runs. TryLock turns a concurrent second
	// run into ErrTrainingInProgress instead of queueing it.
	trainMu sync.Mutex

	statusMu  sync.RWMutex
	training  bool
	lastError string
}

// NewEngine creates a recommendation engine. The store may be nil, in
// which case trained models are held in memory only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store *storage.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		store:  store,
	}, nil
}

// SetSource sets the transaction source used by Train.
func (e *Engine) SetSource(src TransactionSource) {
	e.source = src
}

// Ready reports whether a model is available for lookups.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Train loads transactions from the configured source and runs the full
// training pipeline. Loading counts as part of the run, so a slow source
// holds the training lock.
func (e *Engine) Train(ctx context.Context) error {
	if e.source == nil {
		return errors.New("no transaction source configured")
	}
	return e.run(ctx, func(ctx context.Context) ([][]string, error) {
		return e.source.Transactions(ctx)
	})
}

// TrainTransactions mines the given baskets, persists the resulting
// artifact, and publishes the new model. At most one run executes at a
// time; a concurrent call returns ErrTrainingInProgress.
func (e *Engine) TrainTransactions(ctx context.Context, transactions [][]string) error {
	return e.run(ctx, func(context.Context) ([][]string, error) {
		return transactions, nil
	})
}

func (e *Engine) run(ctx context.Context, load func(context.Context) ([][]string, error)) error {
	if !e.trainMu.TryLock() {
		metrics.TrainingRuns.WithLabelValues("rejected").Inc()
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.setTraining(true)
	defer e.setTraining(false)

	transactions, err := load(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load transactions: %w", err)
	} else {
		err = e.train(ctx, transactions, start)
	}
	metrics.RecordTraining(time.Since(start), err)
	e.setLastError(err)
	return err
}

func (e *Engine) train(ctx context.Context, transactions [][]string, start time.Time) error {
	if len(transactions) == 0 {
		return errors.New("no transactions to train on")
	}

	e.logger.Info().
		Int("transactions", len(transactions)).
		Float64("min_support", e.config.MinSupport).
		Float64("min_confidence", e.config.MinConfidence).
		Float64("min_lift", e.config.MinLift).
		Msg("Training started")

	enc, err := mining.Encode(transactions, e.config.MinSupport)
	if err != nil {
		return fmt.Errorf("encoding failed: %w", err)
	}

	itemsets, err := mining.Mine(ctx, enc, mining.Options{
		MaxLen:  e.config.MaxLen,
		Workers: e.config.Workers,
	})
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	rs := rules.Generate(itemsets, rules.Config{
		MinConfidence: e.config.MinConfidence,
		MinLift:       e.config.MinLift,
	}, e.logger)

	catalogue := catalogueOf(transactions)
	trainedAt := time.Now().UTC()

	art := &storage.Artifact{
		SchemaVersion:       storage.SchemaVersion,
		TrainedAt:           trainedAt,
		TransactionCount:    enc.Total,
		DroppedTransactions: enc.Dropped,
		MinSupport:          e.config.MinSupport,
		MinConfidence:       e.config.MinConfidence,
		MinLift:             e.config.MinLift,
		Items:               catalogue,
		Itemsets:            itemsets,
		Rules:               rs,
	}

	version := 1
	if prev := e.current.Load(); prev != nil {
		version = prev.index.Version() + 1
	}
	if e.store != nil {
		version, err = e.store.Save(ctx, art)
		if err != nil {
			return fmt.Errorf("failed to persist artifact: %w", err)
		}
	}

	e.publish(art, version)

	e.logger.Info().
		Int("model_version", version).
		Int("itemsets", len(itemsets)).
		Int("rules", len(rs)).
		Int("dropped_transactions", enc.Dropped).
		Dur("duration", time.Since(start)).
		Msg("Training completed")

	return nil
}

// LoadLatest restores the most recent persisted artifact and publishes
// it. Returns storage.ErrNoArtifact when nothing has been persisted yet.
func (e *Engine) LoadLatest(ctx context.Context) error {
	if e.store == nil {
		return storage.ErrNoArtifact
	}

	art, err := e.store.LoadLatest(ctx)
	if err != nil {
		return err
	}

	e.publish(art, art.ModelVersion)

	e.logger.Info().
		Int("model_version", art.ModelVersion).
		Time("trained_at", art.TrainedAt).
		Int("rules", len(art.Rules)).
		Msg("Model restored from storage")

	return nil
}

// publish builds the lookup index from an artifact and swaps it in.
func (e *Engine) publish(art *storage.Artifact, version int) {
	idx := rules.NewIndex(art.Rules, art.Items, version, art.TrainedAt)
	e.current.Store(&model{
		index:        idx,
		itemsets:     art.Itemsets,
		transactions: art.TransactionCount,
		dropped:      art.DroppedTransactions,
	})
	metrics.RecordModelSwap(version, len(art.Itemsets), len(art.Rules), art.TransactionCount)
}

// Recommend answers a basket lookup against the current model. An empty
// recommendation list from a ready model is a valid answer; ErrNotReady
// is returned only when no model exists at all.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	m := e.current.Load()
	if m == nil {
		metrics.RecordRecommendation("not_ready", time.Since(start))
		return nil, ErrNotReady
	}

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	topN := req.TopN
	if topN <= 0 {
		topN = e.config.TopN
	}

	recs := m.index.Recommend(req.Items, topN, req.MinConfidence, req.MinLift)

	status := "success"
	if len(recs) == 0 {
		status = "empty"
	}
	metrics.RecordRecommendation(status, time.Since(start))

	e.logger.Debug().
		Str("request_id", req.RequestID).
		Int("basket_size", len(req.Items)).
		Int("recommendations", len(recs)).
		Msg("Recommendation lookup")

	if recs == nil {
		recs = []rules.Recommendation{}
	}

	return &Response{
		Recommendations: recs,
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			ModelVersion: m.index.Version(),
			TrainedAt:    m.index.TrainedAt(),
			LatencyMS:    float64(time.Since(start).Microseconds()) / 1000.0,
			Timestamp:    time.Now().UTC(),
		},
	}, nil
}

// Status reports the engine's model and training state.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	training := e.training
	lastError := e.lastError
	e.statusMu.RUnlock()

	st := TrainingStatus{
		Training:  training,
		LastError: lastError,
	}

	if m := e.current.Load(); m != nil {
		st.Ready = true
		st.ModelVersion = m.index.Version()
		st.TrainedAt = m.index.TrainedAt()
		st.TransactionCount = m.transactions
		st.ItemsetCount = len(m.itemsets)
		st.RuleCount = m.index.Len()
		st.ItemCount = len(m.index.Catalogue())
	}

	return st
}

// SearchItems returns catalogue items matching the query, or ErrNotReady
// before any model exists.
func (e *Engine) SearchItems(query string, limit int) ([]string, error) {
	m := e.current.Load()
	if m == nil {
		return nil, ErrNotReady
	}
	return m.index.SearchItems(query, limit), nil
}

// Rules returns up to limit rules from the current model in canonical
// order.
func (e *Engine) Rules(limit int) ([]rules.Rule, error) {
	m := e.current.Load()
	if m == nil {
		return nil, ErrNotReady
	}
	return m.index.Rules(limit), nil
}

// Itemsets returns up to limit frequent itemsets from the current model
// in canonical order.
func (e *Engine) Itemsets(limit int) ([]mining.Itemset, error) {
	m := e.current.Load()
	if m == nil {
		return nil, ErrNotReady
	}
	sets := m.itemsets
	if limit > 0 && limit < len(sets) {
		sets = sets[:limit]
	}
	out := make([]mining.Itemset, len(sets))
	copy(out, sets)
	return out, nil
}

// TopProducts returns the n most frequent catalogue items by rule
// support, or ErrNotReady before any model exists.
func (e *Engine) TopProducts(n int) ([]rules.ProductStat, error) {
	m := e.current.Load()
	if m == nil {
		return nil, ErrNotReady
	}
	return m.index.TopProducts(n), nil
}

func (e *Engine) setTraining(v bool) {
	e.statusMu.Lock()
	e.training = v
	e.statusMu.Unlock()
}

func (e *Engine) setLastError(err error) {
	e.statusMu.Lock()
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
	e.statusMu.Unlock()
}

// catalogueOf collects every distinct item across the raw transactions,
// sorted. Items below the support threshold still belong in the
// catalogue; search should find them even when no rule mentions them.
func catalogueOf(transactions [][]string) []string {
	seen := make(map[string]struct{})
	for _, txn := range transactions {
		for _, item := range txn {
			seen[item] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for item := range seen {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
