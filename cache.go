package sgv

import (
	"sync"
	"time"
)

//simple in memory cache with TTL, shared by all cached fetches

var cacheInstance *CacheInstance
var cacheSingletonLock = new(sync.Mutex)

var Cache = initCache()

type CacheInstance struct {
	entries    map[string]*CacheEntry
	globalLock *sync.Mutex
}

func initCache() *CacheInstance {
	cacheSingletonLock.Lock()
	defer cacheSingletonLock.Unlock()

	if cacheInstance == nil {
		cacheInstance = new(CacheInstance)
		cacheInstance.entries = make(map[string]*CacheEntry)
		cacheInstance.globalLock = new(sync.Mutex)
	}

	return cacheInstance
}

type CacheEntry struct {
	Value  interface{}
	Expiry int64
	Lock   *sync.Mutex
}

func newCacheEntry() *CacheEntry {
	newEntry := new(CacheEntry)
	newEntry.Value = nil
	newEntry.Expiry = 0
	newEntry.Lock = new(sync.Mutex)

	return newEntry
}

func (c *CacheInstance) getOrCreate(key string) *CacheEntry {
	c.globalLock.Lock()
	defer c.globalLock.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.entries[key] = newCacheEntry()
	}

	return c.entries[key]
}

// GetOrLock returns the cached value, or nil with the entry lock held so the
// caller can Put and Unlock once it has fetched a fresh value.
func (c *CacheInstance) GetOrLock(key string) interface{} {
	entry := c.getOrCreate(key)

	entry.Lock.Lock()

	if entry.Value == nil || entry.Expiry < time.Now().Unix() {
		entry.Value = nil
		return nil //lock stays held, caller puts and unlocks
	}

	defer entry.Lock.Unlock()
	return entry.Value
}

func (c *CacheInstance) Unlock(key string) {
	entry := c.getOrCreate(key)

	entry.Lock.Unlock()
}

func (c *CacheInstance) Put(key string, value interface{}, ttl int64) {
	entry := c.getOrCreate(key)

	entry.Value = value
	entry.Expiry = time.Now().Unix() + ttl
}

func (c *CacheInstance) Destroy() {
	c.globalLock.Lock()
	defer c.globalLock.Unlock()

	c.entries = make(map[string]*CacheEntry)
}
