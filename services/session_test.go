package services

import (
	"fmt"
	"testing"

	"kova/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStorage rejects every write.
type failingStorage struct{}

func (failingStorage) Get(key string) ([]byte, bool)  { return nil, false }
func (failingStorage) Set(key string, v []byte) error { return fmt.Errorf("write refused") }
func (failingStorage) Delete(key string)              {}

func TestConversationRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		storage := NewMemoryStorage()
		store := RestoreConversation(storage, "kova_chat:test")

		var appended []models.Turn
		for i := 0; i < n; i++ {
			sender := models.SenderUser
			if i%2 == 1 {
				sender = models.SenderAssistant
			}
			turn := models.Turn{Sender: sender, Text: fmt.Sprintf("turn %d", i)}
			store.Append(turn)
			appended = append(appended, turn)
		}

		restored := RestoreConversation(storage, "kova_chat:test")
		assert.Equal(t, appended, restored.All(), "round trip for n=%d", n)
	}
}

func TestRestoreMissingStateYieldsEmptyLog(t *testing.T) {
	store := RestoreConversation(NewMemoryStorage(), "kova_chat:nothing")

	assert.Empty(t, store.All())
	assert.Equal(t, 0, store.Len())
}

func TestRestoreCorruptStateYieldsEmptyLog(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set("kova_chat:broken", []byte("{not json at all")))

	store := RestoreConversation(storage, "kova_chat:broken")
	assert.Empty(t, store.All())

	// The store stays usable after discarding corrupt state.
	store.Append(models.Turn{Sender: models.SenderUser, Text: "hi"})
	assert.Equal(t, 1, store.Len())
}

func TestAppendAllowsDuplicateTurns(t *testing.T) {
	store := RestoreConversation(NewMemoryStorage(), "kova_chat:dup")
	turn := models.Turn{Sender: models.SenderUser, Text: "again"}

	store.Append(turn)
	store.Append(turn)

	turns := store.All()
	assert.Len(t, turns, 2)
	assert.Equal(t, turns[0], turns[1])
}

func TestAppendSurvivesPersistenceFailure(t *testing.T) {
	store := RestoreConversation(failingStorage{}, "kova_chat:doomed")

	store.Append(models.Turn{Sender: models.SenderUser, Text: "still here"})
	store.Append(models.Turn{Sender: models.SenderAssistant, Text: "me too"})

	turns := store.All()
	assert.Len(t, turns, 2)
	assert.Equal(t, "still here", turns[0].Text)
	assert.Equal(t, "me too", turns[1].Text)
}

func TestAllReturnsCopy(t *testing.T) {
	store := RestoreConversation(NewMemoryStorage(), "kova_chat:copy")
	store.Append(models.Turn{Sender: models.SenderUser, Text: "original"})

	turns := store.All()
	turns[0].Text = "mutated"

	assert.Equal(t, "original", store.All()[0].Text)
}

func TestSessionManagerMintsIDs(t *testing.T) {
	manager := NewSessionManager(NewMemoryStorage())

	sess := manager.GetOrCreate("")
	require.NotEmpty(t, sess.ID)

	other := manager.GetOrCreate("")
	assert.NotEqual(t, sess.ID, other.ID)
	assert.Equal(t, 2, manager.Count())
}

func TestSessionManagerReusesSessions(t *testing.T) {
	manager := NewSessionManager(NewMemoryStorage())

	first := manager.GetOrCreate("sess-1")
	first.Store.Append(models.Turn{Sender: models.SenderUser, Text: "hello"})

	again := manager.GetOrCreate("sess-1")
	assert.Same(t, first, again)
	assert.Equal(t, 1, again.Store.Len())
	assert.Equal(t, 1, manager.Count())
}
