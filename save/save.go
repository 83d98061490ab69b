// Package save persists best scores and level unlocks. Systems receive a
// Store by injection; the gdata-backed implementation is the production one
// and MemStore backs tests.
package save

import (
	"encoding/json"
	"log/slog"

	"github.com/quasilyte/gdata"
)

// Store is the persistence surface consumed by the game.
type Store interface {
	BestScore(level string) int
	SaveScore(level string, score int) error
	IsUnlocked(level string) bool
	Unlock(level string) error
}

type progress struct {
	Scores   map[string]int  `json:"scores"`
	Unlocked map[string]bool `json:"unlocked"`
}

// GdataStore persists progress through a gdata manager as one JSON item.
type GdataStore struct {
	manager *gdata.Manager
	log     *slog.Logger
	state   progress
}

const progressItem = "progress"

// Open initializes the platform data directory and loads existing progress.
// A missing or corrupt progress item starts fresh rather than failing.
func Open(appName string, logger *slog.Logger) (*GdataStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, err
	}
	s := &GdataStore{
		manager: m,
		log:     logger,
		state:   progress{Scores: map[string]int{}, Unlocked: map[string]bool{}},
	}
	s.load()
	return s, nil
}

func (s *GdataStore) load() {
	data, err := s.manager.LoadItem(progressItem)
	if err != nil {
		s.log.Warn("could not load progress", "err", err)
		return
	}
	if len(data) == 0 {
		return
	}
	var p progress
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Warn("could not parse saved progress", "err", err)
		return
	}
	if p.Scores != nil {
		s.state.Scores = p.Scores
	}
	if p.Unlocked != nil {
		s.state.Unlocked = p.Unlocked
	}
}

func (s *GdataStore) flush() error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.manager.SaveItem(progressItem, data)
}

// BestScore returns the best saved score for a level, zero when unset.
func (s *GdataStore) BestScore(level string) int {
	if s == nil {
		return 0
	}
	return s.state.Scores[level]
}

// SaveScore stores score if it beats the current best.
func (s *GdataStore) SaveScore(level string, score int) error {
	if s == nil || score <= s.state.Scores[level] {
		return nil
	}
	s.state.Scores[level] = score
	return s.flush()
}

// IsUnlocked reports whether a level has been unlocked.
func (s *GdataStore) IsUnlocked(level string) bool {
	return s != nil && s.state.Unlocked[level]
}

// Unlock marks a level unlocked.
func (s *GdataStore) Unlock(level string) error {
	if s == nil || s.state.Unlocked[level] {
		return nil
	}
	s.state.Unlocked[level] = true
	return s.flush()
}

// MemStore is an in-memory Store for tests and headless runs.
type MemStore struct {
	Scores   map[string]int
	Unlocked map[string]bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{Scores: map[string]int{}, Unlocked: map[string]bool{}}
}

// BestScore returns the best saved score for a level.
func (s *MemStore) BestScore(level string) int {
	if s == nil {
		return 0
	}
	return s.Scores[level]
}

// SaveScore stores score if it beats the current best.
func (s *MemStore) SaveScore(level string, score int) error {
	if s == nil {
		return nil
	}
	if score > s.Scores[level] {
		s.Scores[level] = score
	}
	return nil
}

// IsUnlocked reports whether a level has been unlocked.
func (s *MemStore) IsUnlocked(level string) bool {
	return s != nil && s.Unlocked[level]
}

// Unlock marks a level unlocked.
func (s *MemStore) Unlock(level string) error {
	if s == nil {
		return nil
	}
	s.Unlocked[level] = true
	return nil
}
