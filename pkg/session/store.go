package session

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultHistoryCapacity bounds the per-user translation history
	// ring. Insertions beyond this evict the oldest record.
	DefaultHistoryCapacity = 20
)

// Default language pair for new sessions.
const (
	DefaultFrom = language.ZhTW
	DefaultTo   = language.EN
)

// ErrSamePair is returned when a pair update would set both ends to the
// same language. The previous pair is left unchanged.
var ErrSamePair = errors.New("source and target language are identical")

// Modality records whether a translation originated as text or voice.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityVoice Modality = "voice"
)

// Record is one immutable history entry, owned by its session's ring.
type Record struct {
	Original   string
	Translated string
	From       language.Code
	To         language.Code
	Modality   Modality
	CreatedAt  time.Time
}

// Pair is an ordered (source, target) language combination. Direction
// matters: (a, b) and (b, a) are different pairs.
type Pair struct {
	From language.Code
	To   language.Code
}

// session is the per-user mutable state. All access goes through the
// Store's lock; sessions live for the process lifetime.
type session struct {
	pair    Pair
	history []Record // most-recent-first
}

// Store keeps per-user sessions: the active language pair and a bounded
// translation history. Sessions are created lazily with the default
// pair and never explicitly destroyed. The store is safe for concurrent
// use; callers that need per-user event ordering serialize externally.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	capacity int
	logger   *logrus.Logger
}

// NewStore creates an empty session store with the default history
// capacity.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		sessions: make(map[string]*session),
		capacity: DefaultHistoryCapacity,
		logger:   logger,
	}
}

// getOrCreate returns the session for userID, creating it with the
// default pair when absent. Callers must hold s.mu.
func (s *Store) getOrCreate(userID string) *session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{pair: Pair{From: DefaultFrom, To: DefaultTo}}
		s.sessions[userID] = sess
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
		}).Debug("Created session with default pair")
	}
	return sess
}

// Pair returns the user's active language pair, lazily creating the
// session with the default pair.
func (s *Store) Pair(userID string) Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(userID).pair
}

// SetPair replaces the user's active pair. Setting both ends to the
// same language fails with ErrSamePair and leaves the previous pair
// unchanged.
func (s *Store) SetPair(userID string, from, to language.Code) error {
	if from == to {
		return ErrSamePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.pair = Pair{From: from, To: to}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"from":    from,
		"to":      to,
	}).Info("Session pair updated")

	return nil
}

// Swap reverses the user's active pair and returns the new pair.
func (s *Store) Swap(userID string) Pair {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.pair = Pair{From: sess.pair.To, To: sess.pair.From}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"from":    sess.pair.From,
		"to":      sess.pair.To,
	}).Info("Session pair swapped")

	return sess.pair
}

// Record pushes a history record at the head of the user's ring,
// evicting the oldest record beyond capacity.
func (s *Store) Record(userID string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.history = append([]Record{rec}, sess.history...)
	if len(sess.history) > s.capacity {
		sess.history = sess.history[:s.capacity]
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"history_size": len(sess.history),
	}).Debug("History record stored")
}

// History returns a copy of the user's history, most-recent-first.
// Index 0 is the newest record (user-facing index 1).
func (s *Store) History(userID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	out := make([]Record, len(sess.history))
	copy(out, sess.history)
	return out
}
