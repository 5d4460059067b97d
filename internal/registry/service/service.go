// Package service wires the schema store, compatibility metrics, and
// logging together into the operations the API and CLI layers call.
package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Polqt/sbeschema/internal/registry/metrics"
	"github.com/Polqt/sbeschema/internal/registry/store"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

// MaxConcurrentChecks bounds how many CheckBatch comparisons run at
// once, regardless of batch size.
const MaxConcurrentChecks = 8

// Service is the application-level entry point used by every
// transport (HTTP handlers, CLI commands).
type Service struct {
	store   *store.Store
	metrics *metrics.Manager
	log     *logrus.Logger
}

// New constructs a Service over an existing Store.
func New(st *store.Store, m *metrics.Manager, log *logrus.Logger) *Service {
	if m == nil {
		m = metrics.NoOpManager()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: st, metrics: m, log: log}
}

// Register validates and appends raw as the next version of subject,
// recording whether it was accepted or rejected and, for accepted
// registrations, the check's latency.
func (s *Service) Register(subject string, raw []byte) (*store.Version, error) {
	start := time.Now()
	version, err := s.store.Register(subject, raw)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		var se *sbeerr.Error
		if errors.As(err, &se) && se.Kind == sbeerr.KindSchemaParse {
			s.metrics.RecordParseFailure(subject)
		}
		s.metrics.RecordRegistration(subject, "rejected")
		s.log.WithFields(logrus.Fields{"subject": subject, "error": err}).Warn("schema registration rejected")
		return nil, err
	}

	s.metrics.RecordCheckDuration(subject, elapsed)
	s.metrics.RecordRegistration(subject, "accepted")
	s.metrics.SetSubjectCount(len(s.store.Subjects()))
	s.log.WithFields(logrus.Fields{"subject": subject, "version": version.Number}).Info("schema registered")
	return version, nil
}

// CheckCompatibility evaluates raw against subject's latest version
// without registering it.
func (s *Service) CheckCompatibility(subject string, raw []byte) (string, error) {
	start := time.Now()
	level, err := s.store.CheckCompatibility(subject, raw)
	s.metrics.RecordCheckDuration(subject, time.Since(start).Seconds())
	return level, err
}

// BatchItem is one pairing of a subject and a candidate schema
// document submitted to CheckBatch.
type BatchItem struct {
	Subject string
	Raw     []byte
}

// BatchResult is the outcome of checking one BatchItem.
type BatchResult struct {
	Subject string
	Level   string
	Err     error
}

// CheckBatch runs CheckCompatibility over every item concurrently,
// bounded by MaxConcurrentChecks, and returns results in input order.
// A single item's failure never aborts the others; it is reported in
// that item's Err field.
func (s *Service) CheckBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(MaxConcurrentChecks)

	for i, item := range items {
		i, item := i, item
		eg.Go(func() error {
			level, err := s.CheckCompatibility(item.Subject, item.Raw)

			mu.Lock()
			results[i] = BatchResult{Subject: item.Subject, Level: level, Err: err}
			mu.Unlock()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// SetStrategy updates the compatibility strategy enforced for subject.
func (s *Service) SetStrategy(subject string, strat strategy.Strategy) error {
	return s.store.SetStrategy(subject, strat)
}

// Strategy returns the compatibility strategy currently enforced for
// subject.
func (s *Service) Strategy(subject string) (strategy.Strategy, error) {
	return s.store.Strategy(subject)
}

// GetLatest returns subject's latest registered version.
func (s *Service) GetLatest(subject string) (*store.Version, error) {
	return s.store.GetLatest(subject)
}

// GetVersion returns a specific version for subject.
func (s *Service) GetVersion(subject string, number int) (*store.Version, error) {
	return s.store.GetVersion(subject, number)
}

// Subjects lists every registered subject.
func (s *Service) Subjects() []string {
	return s.store.Subjects()
}

// Versions lists every version number registered for subject.
func (s *Service) Versions(subject string) ([]int, error) {
	return s.store.Versions(subject)
}

// MetricsHandler exposes the underlying metrics HTTP handler for
// mounting onto a router.
func (s *Service) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}
