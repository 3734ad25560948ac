package session

import (
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/realvia/realvia/core"
)

// Options configures the in-memory store.
type Options struct {
	// ShardCount sets how many independent lock domains the keyspace is
	// split across. Conversations hashing to different shards never contend.
	ShardCount int
	// MaxSessionsPerShard bounds each shard with an LRU eviction policy.
	// Zero keeps sessions for the process lifetime, matching the volatile
	// contract of core.Store.
	MaxSessionsPerShard int
}

const defaultShardCount = 16

// InMemoryStore is a volatile core.Store keeping sessions in sharded
// process-local maps. Appends for the same identifier are serialized by the
// owning shard; distinct identifiers on distinct shards proceed without
// contention. Reads return snapshots so callers never observe a session
// mid-mutation.
type InMemoryStore struct {
	shards []*shard
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	evicting *lru.Cache[string, *core.Session]
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{ShardCount: defaultShardCount}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ShardCount <= 0 {
		opts.ShardCount = defaultShardCount
	}

	shards := make([]*shard, opts.ShardCount)
	for i := range shards {
		sh := &shard{}
		if opts.MaxSessionsPerShard > 0 {
			cache, err := lru.New[string, *core.Session](opts.MaxSessionsPerShard)
			if err == nil {
				sh.evicting = cache
			}
		}
		if sh.evicting == nil {
			sh.sessions = make(map[string]*core.Session)
		}
		shards[i] = sh
	}

	return &InMemoryStore{shards: shards}
}

// Get returns a snapshot of the session for id, or a fresh empty session for
// an unknown identifier. It never errors and never mutates the store; the
// session is materialized lazily by the first Append.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	sess, ok := sh.lookup(id)
	sh.mu.RUnlock()
	if !ok {
		return core.NewSession(id), nil
	}
	return sess.Snapshot(), nil
}

// Append atomically adds one transcript entry plus routing metadata to the
// session for id, creating the session if this is its first turn.
func (s *InMemoryStore) Append(id string, entry core.TranscriptEntry, routing core.RoutingDecision) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	sess, ok := sh.lookup(id)
	if !ok {
		sess = core.NewSession(id)
		sh.insert(id, sess)
	}
	sess.Append(entry, routing)
	sh.mu.Unlock()
	return nil
}

// Len reports the number of live sessions across all shards.
func (s *InMemoryStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		if sh.evicting != nil {
			total += sh.evicting.Len()
		} else {
			total += len(sh.sessions)
		}
		sh.mu.RUnlock()
	}
	return total
}

func (s *InMemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

func (sh *shard) lookup(id string) (*core.Session, bool) {
	if sh.evicting != nil {
		return sh.evicting.Get(id)
	}
	sess, ok := sh.sessions[id]
	return sess, ok
}

func (sh *shard) insert(id string, sess *core.Session) {
	if sh.evicting != nil {
		sh.evicting.Add(id, sess)
		return
	}
	sh.sessions[id] = sess
}
