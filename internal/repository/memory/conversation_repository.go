package memory

import (
	"sync"
	"time"

	"audit-copilot-be/pkg/workflow"

	"github.com/patrickmn/go-cache"
)

// maxTurns caps each conversation's history; Append drops the oldest
// turns past this.
const maxTurns = 10

// ConversationRepository keeps conversation history in memory. Histories
// expire after an hour of inactivity. A store-level mutex serializes the
// read-modify-write in Append; the cache alone cannot make that atomic.
type ConversationRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ workflow.ConversationStore = &ConversationRepository{}

func NewConversationRepository() *ConversationRepository {
	// Default expiration of 1 hour, purge expired conversations every
	// 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) History(conversationID string) ([]workflow.ConversationTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(conversationID); found {
		stored := x.([]workflow.ConversationTurn)
		turns := make([]workflow.ConversationTurn, len(stored))
		copy(turns, stored)
		return turns, nil
	}
	return nil, nil
}

func (r *ConversationRepository) Append(conversationID string, turn workflow.ConversationTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var turns []workflow.ConversationTurn
	if x, found := r.cache.Get(conversationID); found {
		turns = x.([]workflow.ConversationTurn)
	}

	turns = append(turns, turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	r.cache.Set(conversationID, turns, cache.DefaultExpiration)
	return nil
}

func (r *ConversationRepository) Delete(conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(conversationID)
	return nil
}

func (r *ConversationRepository) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	return ids, nil
}
