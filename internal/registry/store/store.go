// Package store is the in-memory, mutex-guarded schema version
// history backing the registry service: one ordered list of versions
// per subject, each accepted only if it satisfies the subject's
// compatibility strategy against the current latest version.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbexml"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrVersionNotFound = errors.New("schema version not found")
)

// Version is one registered, immutable schema version for a subject.
type Version struct {
	Subject   string
	Number    int
	Schema    model.Schema
	Raw       []byte
	Signature string
	Created   time.Time
}

type subjectEntry struct {
	versions []*Version
	strategy strategy.Strategy
}

// Store holds every subject's version history. A Store's zero value
// is not usable; construct one with New.
type Store struct {
	mu              sync.RWMutex
	subjects        map[string]*subjectEntry
	cache           *lru.Cache[string, model.Schema]
	defaultStrategy strategy.Strategy
}

// New constructs a Store whose parsed-schema cache holds at most
// cacheSize entries, evicting least-recently-used content hashes
// first, and whose subjects default to defaultStrategy until
// SetStrategy is called.
func New(cacheSize int, defaultStrategy strategy.Strategy) (*Store, error) {
	cache, err := lru.New[string, model.Schema](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("construct schema cache: %w", err)
	}
	return &Store{
		subjects:        make(map[string]*subjectEntry),
		cache:           cache,
		defaultStrategy: defaultStrategy,
	}, nil
}

// parse resolves raw XML to a model.Schema, consulting the content-hash
// cache first so resubmitting identical bytes never re-runs the XML
// deserializer.
func (s *Store) parse(raw []byte) (model.Schema, error) {
	key := contentKey(raw)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	schema, err := sbexml.Parse(raw)
	if err != nil {
		return model.Schema{}, err
	}
	s.cache.Add(key, schema)
	return schema, nil
}

func contentKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Register parses raw and appends it as the subject's next version,
// provided it satisfies the subject's strategy against the current
// latest version. Resubmitting content structurally identical to the
// latest version is a no-op that returns the existing version. The
// subject is created, defaulting to the Store's default strategy, on
// its first registration.
func (s *Store) Register(subject string, raw []byte) (*Version, error) {
	schema, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.subjects[subject]
	if !ok {
		entry = &subjectEntry{strategy: s.defaultStrategy}
		s.subjects[subject] = entry
	}

	if len(entry.versions) > 0 {
		latest := entry.versions[len(entry.versions)-1]
		if latest.Schema.Equal(schema) {
			return latest, nil
		}
		v := strategy.NewValidator(entry.strategy)
		if _, err := v.Check(latest.Schema, schema); err != nil {
			return nil, err
		}
	}

	version := &Version{
		Subject:   subject,
		Number:    len(entry.versions) + 1,
		Schema:    schema,
		Raw:       append([]byte(nil), raw...),
		Signature: schema.Signature(),
		Created:   time.Now(),
	}
	entry.versions = append(entry.versions, version)
	return version, nil
}

// CheckCompatibility parses raw and evaluates it against the subject's
// latest version and strategy without registering it (a dry run).
func (s *Store) CheckCompatibility(subject string, raw []byte) (compatLevel string, err error) {
	schema, err := s.parse(raw)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	entry, ok := s.subjects[subject]
	s.mu.RUnlock()
	if !ok || len(entry.versions) == 0 {
		return "NoChange", nil
	}

	latest := entry.versions[len(entry.versions)-1]
	v := strategy.NewValidator(entry.strategy)
	level, err := v.Check(latest.Schema, schema)
	return level.String(), err
}

// GetLatest returns the latest registered version for subject.
func (s *Store) GetLatest(subject string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.subjects[subject]
	if !ok || len(entry.versions) == 0 {
		return nil, ErrSubjectNotFound
	}
	return entry.versions[len(entry.versions)-1], nil
}

// GetVersion returns a specific 1-indexed version for subject.
func (s *Store) GetVersion(subject string, number int) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.subjects[subject]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	if number < 1 || number > len(entry.versions) {
		return nil, ErrVersionNotFound
	}
	return entry.versions[number-1], nil
}

// Subjects returns every registered subject name.
func (s *Store) Subjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.subjects))
	for name := range s.subjects {
		out = append(out, name)
	}
	return out
}

// Versions returns every version number registered for subject.
func (s *Store) Versions(subject string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.subjects[subject]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	out := make([]int, len(entry.versions))
	for i := range entry.versions {
		out[i] = i + 1
	}
	return out, nil
}

// SetStrategy updates the compatibility strategy enforced for
// subsequent registrations against subject.
func (s *Store) SetStrategy(subject string, strat strategy.Strategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.subjects[subject]
	if !ok {
		return ErrSubjectNotFound
	}
	entry.strategy = strat
	return nil
}

// Strategy returns the compatibility strategy currently enforced for
// subject.
func (s *Store) Strategy(subject string) (strategy.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.subjects[subject]
	if !ok {
		return 0, ErrSubjectNotFound
	}
	return entry.strategy, nil
}

// Delete removes subject and its entire version history.
func (s *Store) Delete(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subject]; !ok {
		return ErrSubjectNotFound
	}
	delete(s.subjects, subject)
	return nil
}
