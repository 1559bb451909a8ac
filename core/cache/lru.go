package cache

import (
	"container/list"
	"time"
)

// LRUOpts configures a new LRU.
type LRUOpts struct {
	Size int
}

type entry struct {
	key       string
	val       any
	expiresAt time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type getReq struct {
	key  string
	resp chan getResp
}

type getResp struct {
	val any
	ok  bool
}

type putReq struct {
	key  string
	val  any
	opts []PutOption
}

type delReq struct {
	key string
}

// LRU is an in-memory, size-bounded cache with optional per-entry TTL. All
// state lives in a single goroutine, so no external locking is needed.
type LRU struct {
	getCh   chan getReq
	putCh   chan putReq
	delCh   chan delReq
	closeCh chan struct{}
	doneCh  chan struct{}
}

// NewLRU creates a cache holding at most opts.Size entries (default 128),
// evicting the least-recently-used entry once full.
func NewLRU(opts LRUOpts) *LRU {
	if opts.Size <= 0 {
		opts.Size = 128
	}

	l := &LRU{
		getCh:   make(chan getReq),
		putCh:   make(chan putReq),
		delCh:   make(chan delReq),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	go l.run(opts.Size)

	return l
}

// Get returns false if the key is absent, closed, or expired.
func (l *LRU) Get(key string) (any, bool) {
	resp := make(chan getResp, 1)
	select {
	case l.getCh <- getReq{key: key, resp: resp}:
	case <-l.doneCh:
		return nil, false
	}
	select {
	case r := <-resp:
		return r.val, r.ok
	case <-l.doneCh:
		return nil, false
	}
}

// Put inserts or refreshes key. A no-op once the cache is closed.
func (l *LRU) Put(key string, val any, opts ...PutOption) {
	select {
	case l.putCh <- putReq{key: key, val: val, opts: opts}:
	case <-l.doneCh:
	}
}

// Delete removes key if present. A no-op once the cache is closed.
func (l *LRU) Delete(key string) {
	select {
	case l.delCh <- delReq{key: key}:
	case <-l.doneCh:
	}
}

// Close stops the background goroutine. Idempotent.
func (l *LRU) Close() {
	select {
	case <-l.doneCh:
		return
	default:
	}
	select {
	case l.closeCh <- struct{}{}:
	case <-l.doneCh:
	}
}

func (l *LRU) run(size int) {
	defer close(l.doneCh)

	ll := list.New()
	byKey := make(map[string]*list.Element)

	evict := func(ele *list.Element) {
		ll.Remove(ele)
		delete(byKey, ele.Value.(*entry).key)
	}

	for {
		select {
		case <-l.closeCh:
			return

		case req := <-l.getCh:
			ele, ok := byKey[req.key]
			if !ok {
				req.resp <- getResp{ok: false}
				continue
			}
			e := ele.Value.(*entry)
			if e.expired(time.Now()) {
				evict(ele)
				req.resp <- getResp{ok: false}
				continue
			}
			ll.MoveToFront(ele)
			req.resp <- getResp{val: e.val, ok: true}

		case req := <-l.putCh:
			var opt PutOptions
			for _, o := range req.opts {
				o(&opt)
			}
			var expiresAt time.Time
			if opt.TTL > 0 {
				expiresAt = time.Now().Add(opt.TTL)
			}

			if ele, ok := byKey[req.key]; ok {
				ll.MoveToFront(ele)
				e := ele.Value.(*entry)
				e.val = req.val
				e.expiresAt = expiresAt
				continue
			}

			ele := ll.PushFront(&entry{key: req.key, val: req.val, expiresAt: expiresAt})
			byKey[req.key] = ele
			if ll.Len() > size {
				if back := ll.Back(); back != nil {
					evict(back)
				}
			}

		case req := <-l.delCh:
			if ele, ok := byKey[req.key]; ok {
				evict(ele)
			}
		}
	}
}

var _ Cache = (*LRU)(nil)
