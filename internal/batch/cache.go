// Package batch maintains keyed, ordered, consumable batches of
// ready-to-serve practice sentences. Batches are generated ahead of
// consumption and drained one item per call; the cache is process-wide
// state owned by whoever constructs it, never a package-level
// singleton, so tests and future multi-instance deployments can hold
// isolated copies.
package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// Key partitions the cache. Topic-mode batches are shared across
// learners practicing the same language/topic/level; vocabulary-mode
// batches are per learner.
type Key string

// TopicKey builds the cache key for shared topic practice.
func TopicKey(lang entity.Language, topic string, level entity.Level) Key {
	return Key(fmt.Sprintf("topic|%s|%s|%s", lang.Code(), topic, level))
}

// VocabKey builds the per-learner cache key for vocabulary practice.
func VocabKey(userID int64, lang entity.Language) Key {
	return Key(fmt.Sprintf("vocab|%d|%s", userID, lang.Code()))
}

// Generator produces a fresh, fully parsed batch for one key. A nil
// or empty result with a nil error means the upstream produced no
// usable lines; that is not an error at this layer.
type Generator func(ctx context.Context) ([]string, error)

// Cache is the keyed batch store. Each key's check-empty → generate →
// pop-front cycle is atomic: the map is guarded by one mutex and
// generation is deduplicated per key with singleflight, so two
// concurrent misses on the same key share a single upstream call
// instead of racing.
type Cache struct {
	mu      sync.Mutex
	batches map[Key][]string
	group   singleflight.Group
}

// NewCache creates an empty batch cache.
func NewCache() *Cache {
	return &Cache{batches: make(map[Key][]string)}
}

// Preload generates a fresh batch for key, replacing any existing one,
// and returns the number of items produced. A failed generation leaves
// the cache for key untouched and returns the error; a successful but
// unusable generation stores an empty batch.
func (c *Cache) Preload(ctx context.Context, key Key, gen Generator) (int, error) {
	n, err := c.fill(ctx, key, gen)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ConsumeOne returns and removes the first element of key's batch,
// generating a new batch first when none is cached. Generation
// failures propagate and leave no entry behind, so the key is not
// poisoned as permanently empty. When generation succeeds but yields
// nothing, the empty-sentence sentinel is returned.
func (c *Cache) ConsumeOne(ctx context.Context, key Key, gen Generator) (string, error) {
	if item, ok := c.popFront(key); ok {
		return item, nil
	}

	if _, err := c.fill(ctx, key, gen); err != nil {
		return "", err
	}

	item, _ := c.popFront(key)
	return item, nil
}

// Len reports the number of cached items for key.
func (c *Cache) Len(key Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches[key])
}

// Invalidate drops the batch for key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.batches, key)
}

// fill runs the generator under singleflight and stores the result.
// Concurrent callers for the same key share one generation: the losing
// caller waits for the winner's batch rather than triggering a second
// upstream call or clobbering the winner's write.
func (c *Cache) fill(ctx context.Context, key Key, gen Generator) (int, error) {
	n, err, _ := c.group.Do(string(key), func() (any, error) {
		items, err := gen(ctx)
		if err != nil {
			return 0, err
		}
		if items == nil {
			items = []string{}
		}
		c.mu.Lock()
		c.batches[key] = items
		c.mu.Unlock()
		return len(items), nil
	})
	if err != nil {
		return 0, err
	}
	return n.(int), nil
}

func (c *Cache) popFront(key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch, ok := c.batches[key]
	if !ok || len(batch) == 0 {
		return "", false
	}
	c.batches[key] = batch[1:]
	return batch[0], true
}
