package storefront

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// syncedList 服务端权威列表的本地快照
// 写操作按到达顺序串行执行，成功后整体替换为服务端返回值，失败保留上次成功的状态
type syncedList[T any] struct {
	queue   *semaphore.Weighted
	fetches singleflight.Group

	mu      sync.RWMutex
	items   []T
	err     error
	version uint64
	subs    map[chan struct{}]struct{}
}

func newSyncedList[T any]() *syncedList[T] {
	return &syncedList[T]{
		queue: semaphore.NewWeighted(1),
		subs:  make(map[chan struct{}]struct{}),
	}
}

// serialize 进入写队列，semaphore 按 FIFO 唤醒等待者
func (s *syncedList[T]) serialize(ctx context.Context, fn func() error) error {
	if err := s.queue.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.queue.Release(1)
	return fn()
}

// sharedFetchTimeout 合并拉取的上限，不随单个调用方取消
const sharedFetchTimeout = 30 * time.Second

// fetch 合并并发拉取
// 共享的拉取与发起者的取消解耦，每个调用方只按自己的 ctx 放弃等待
func (s *syncedList[T]) fetch(ctx context.Context, load func(context.Context) ([]T, error)) error {
	ch := s.fetches.DoChan("fetch", func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return nil, s.serialize(shared, func() error {
			items, err := load(shared)
			if err != nil {
				s.set(nil, err)
				return err
			}
			s.set(items, nil)
			return nil
		})
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mutate 执行一次写操作并以服务端结果替换本地状态
func (s *syncedList[T]) mutate(ctx context.Context, guard func([]T) error, call func(context.Context) ([]T, error)) error {
	return s.serialize(ctx, func() error {
		if guard != nil {
			if err := guard(s.snapshot()); err != nil {
				return err
			}
		}
		items, err := call(ctx)
		if err != nil {
			s.flag(err)
			return err
		}
		s.set(items, nil)
		return nil
	})
}

func (s *syncedList[T]) set(items []T, err error) {
	s.mu.Lock()
	s.items = append([]T(nil), items...)
	s.err = err
	s.version++
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *syncedList[T]) flag(err error) {
	s.mu.Lock()
	s.err = err
	s.version++
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *syncedList[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *syncedList[T]) lastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *syncedList[T]) currentVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// subscribe 返回状态变更通知通道，通道容量为 1，多次变更会合并
func (s *syncedList[T]) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

func (s *syncedList[T]) notifyLocked() {
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
