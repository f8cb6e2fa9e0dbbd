// Package database provides the DataManager for cached database operations.
package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
	Timeout      time.Duration
}

// CacheManager provides shared caching across DataManagers
type CacheManager struct {
	cache     map[string]*list.Element
	cacheList *list.List
	mu        sync.Mutex
}

// cacheEntry holds a cached value with its key
type cacheEntry struct {
	key   string
	value interface{}
}

// globalCacheManager is shared across all DataManager instances
var globalCacheManager = newCacheManager()

func newCacheManager() *CacheManager {
	return &CacheManager{
		cache:     make(map[string]*list.Element),
		cacheList: list.New(),
	}
}

func (c *CacheManager) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.cache[key]
	if !exists {
		return nil, false
	}
	c.cacheList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

func (c *CacheManager) put(key string, value interface{}, maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{key: key, value: value}
	if elem, exists := c.cache[key]; exists {
		elem.Value = entry
		c.cacheList.MoveToFront(elem)
		return
	}

	c.cache[key] = c.cacheList.PushFront(entry)

	if maxSize > 0 && c.cacheList.Len() > maxSize {
		if oldest := c.cacheList.Back(); oldest != nil {
			delete(c.cache, oldest.Value.(*cacheEntry).key)
			c.cacheList.Remove(oldest)
		}
	}
}

func (c *CacheManager) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.cache[key]; exists {
		c.cacheList.Remove(elem)
		delete(c.cache, key)
	}
}

func (c *CacheManager) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.cacheList = list.New()
}

func (c *CacheManager) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheList.Len()
}

// DataManager provides cached access to a MongoDB collection.
// Cached values are shared: callers must not mutate what Get returns.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
		Timeout:      5 * time.Second,
	}
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}
	if dmOptions.Timeout <= 0 {
		dmOptions.Timeout = 5 * time.Second
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// collection resolves the handle on every call so a DataManager created while
// offline starts working after the reconnect.
func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// generateCacheKey creates a unique, deterministic key from a query
// It sorts the keys to ensure consistent ordering regardless of map iteration order
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

func (dm *DataManager[T]) context(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctxOrBackground(parent), dm.options.Timeout)
}

// checkNetwork flips the database to offline mode on connection errors
func (dm *DataManager[T]) checkNetwork(err error) {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		dm.dbInstance.MarkDisconnected()
	}
}

// Get retrieves a document from cache or database. A missing document
// returns (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	if cached, ok := globalCacheManager.get(cacheKey); ok {
		return cached.(*T), nil
	}

	result, err := dm.Fetch(ctx, query)
	if err != nil || result == nil {
		return result, err
	}

	globalCacheManager.put(cacheKey, result, dm.options.MaxCacheSize)
	return result, nil
}

// Fetch reads a document straight from the database, bypassing the cache
func (dm *DataManager[T]) Fetch(ctx context.Context, query bson.M) (*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := dm.context(ctx)
	defer cancel()

	var result T
	err := col.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.name, err), "DataManager")
		dm.checkNetwork(err)
		return nil, err
	}

	return &result, nil
}

// GetAll retrieves all documents matching a query from the database
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M) ([]*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctxOrBackground(ctx), 2*dm.options.Timeout)
	defer cancel()

	cursor, err := col.Find(ctx, query)
	if err != nil {
		dm.checkNetwork(err)
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento inválido en '%s' omitido: %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Replace overwrites (or inserts) the whole document matching query.
// While offline the write is queued and replayed after reconnecting.
func (dm *DataManager[T]) Replace(ctx context.Context, query bson.M, doc *T) error {
	cacheKey := dm.generateCacheKey(query)
	queued := QueuedOperation{
		CollectionName: dm.name,
		Query:          query,
		Operation:      OpReplace,
		Data:           doc,
	}

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(queued)
		globalCacheManager.put(cacheKey, doc, dm.options.MaxCacheSize)
		return nil
	}

	ctx, cancel := dm.context(ctx)
	defer cancel()

	if _, err := col.ReplaceOne(ctx, query, doc, options.Replace().SetUpsert(true)); err != nil {
		logger.Error("Error en 'replace' con DB conectada. Encolando por seguridad.", "DataManager")
		dm.dbInstance.AddToWriteQueue(queued)
		dm.checkNetwork(err)
		globalCacheManager.remove(cacheKey)
		return err
	}

	globalCacheManager.put(cacheKey, doc, dm.options.MaxCacheSize)
	return nil
}

// CompareAndSwap replaces the document matching query only while its
// version field still equals expected. Version 0 also matches a missing
// document (inserted) and legacy documents without a version field.
// It returns false on a version conflict.
func (dm *DataManager[T]) CompareAndSwap(ctx context.Context, query bson.M, expected int64, doc *T) (bool, error) {
	col := dm.collection()
	if col == nil {
		return false, ErrNotConnected
	}

	filter := bson.M{}
	for k, v := range query {
		filter[k] = v
	}
	opts := options.Replace()
	if expected == 0 {
		filter["$or"] = bson.A{
			bson.M{"version": 0},
			bson.M{"version": bson.M{"$exists": false}},
		}
		opts.SetUpsert(true)
	} else {
		filter["version"] = expected
	}

	ctx, cancel := dm.context(ctx)
	defer cancel()

	cacheKey := dm.generateCacheKey(query)
	res, err := col.ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		globalCacheManager.remove(cacheKey)
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		dm.checkNetwork(err)
		return false, err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		globalCacheManager.remove(cacheKey)
		return false, nil
	}

	globalCacheManager.put(cacheKey, doc, dm.options.MaxCacheSize)
	return true, nil
}

// ClearCache clears the entire cache
func (dm *DataManager[T]) ClearCache() {
	globalCacheManager.clear()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return globalCacheManager.len()
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Caché para '%s' preparada (tamaño máx: %d). Se llenará bajo demanda.", dm.name, dm.options.MaxCacheSize), "DataManager")
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
