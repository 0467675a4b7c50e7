package entity

import "github.com/milk9111/actorsim/actor"

type cacheKey struct {
	entity int
	anim   actor.AnimationID
}

// ActionCache memoizes compiled action lists per (entity, animation).
type ActionCache struct {
	entries map[cacheKey][]Action
	Hits    int
	Misses  int
}

func NewActionCache() *ActionCache {
	return &ActionCache{entries: make(map[cacheKey][]Action)}
}

func (c *ActionCache) Get(entity int, anim actor.AnimationID) ([]Action, bool) {
	actions, ok := c.entries[cacheKey{entity, anim}]
	if ok {
		c.Hits++
	} else {
		c.Misses++
	}
	return actions, ok
}

func (c *ActionCache) Put(entity int, anim actor.AnimationID, actions []Action) {
	c.entries[cacheKey{entity, anim}] = actions
}

func (c *ActionCache) InvalidateEntity(entity int) {
	for k := range c.entries {
		if k.entity == entity {
			delete(c.entries, k)
		}
	}
}

func (c *ActionCache) Clear() {
	clear(c.entries)
}

func (c *ActionCache) Len() int { return len(c.entries) }
