package services

import (
	"encoding/json"
	"sync"

	"kova/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// sessionKeyPrefix namespaces conversation state inside the session storage,
// mirroring the widget's single "kova_chat" storage key.
const sessionKeyPrefix = "kova_chat:"

// SessionStorage is the session-scoped durable state boundary. One key holds
// one serialized conversation log for the life of a session.
type SessionStorage interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string)
}

// MemoryStorage keeps session state in process memory
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates a new in-memory session storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// ConversationStore is an append-only, order-preserving log of turns backed
// by a single session storage key. Turns are never removed or reordered.
type ConversationStore struct {
	mu      sync.Mutex
	key     string
	storage SessionStorage
	turns   []models.Turn
}

// RestoreConversation rebuilds a conversation store from persisted session
// state. Missing or unparseable state yields an empty log; corruption is
// swallowed, never raised.
func RestoreConversation(storage SessionStorage, key string) *ConversationStore {
	store := &ConversationStore{key: key, storage: storage}

	raw, ok := storage.Get(key)
	if !ok {
		return store
	}

	var turns []models.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		log.Warn().Str("key", key).Msg("Discarding unreadable conversation state")
		return store
	}

	store.turns = turns
	return store
}

// Append adds a turn to the end of the log and persists the updated log
// before returning. A failed write is logged and leaves the in-memory log
// intact; the session keeps going either way.
func (s *ConversationStore) Append(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)

	raw, err := json.Marshal(s.turns)
	if err == nil {
		err = s.storage.Set(s.key, raw)
	}
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to persist conversation turn")
	}
}

// All returns a copy of the full log in append order.
func (s *ConversationStore) All() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns recorded so far.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Session owns the per-session state: one conversation store under one ID.
type Session struct {
	ID    string
	Store *ConversationStore
}

// SessionManager hands out sessions keyed by ID, restoring any persisted
// conversation state the first time a session is seen.
type SessionManager struct {
	mu       sync.Mutex
	storage  SessionStorage
	sessions map[string]*Session
}

// NewSessionManager creates a new session manager over the given storage
func NewSessionManager(storage SessionStorage) *SessionManager {
	return &SessionManager{
		storage:  storage,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, minting a fresh ID when blank.
func (m *SessionManager) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess
	}

	sess := &Session{
		ID:    id,
		Store: RestoreConversation(m.storage, sessionKeyPrefix+id),
	}
	m.sessions[id] = sess
	return sess
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
