package media

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type fakeObject struct {
	lastModified time.Time
}

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	listCalls int
	deleteErr error
	headErr   error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]fakeObject)}
}

func (s *fakeStore) put(key string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = fakeObject{lastModified: at}
}

func (s *fakeStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ObjectInfo{Key: key, LastModified: obj.lastModified})
		}
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) PresignPut(_ context.Context, key string, contentType string, ttl time.Duration) (*PresignedPut, error) {
	return &PresignedPut{
		URL:     "https://bucket.example/" + key + "?sig=1&ct=" + contentType + "&ttl=" + ttl.String(),
		Headers: map[string]string{"x-amz-acl": "public-read"},
	}, nil
}

func (s *fakeStore) HeadExists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headErr != nil {
		return false, s.headErr
	}
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

type fakeIndex struct {
	mu      sync.Mutex
	records []GuestImageRecord
	readErr   error
	removeErr error
	locks     int
}

func (i *fakeIndex) GuestImages(context.Context) ([]GuestImageRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.readErr != nil {
		return nil, i.readErr
	}
	return append([]GuestImageRecord(nil), i.records...), nil
}

func (i *fakeIndex) AppendGuestImage(_ context.Context, record GuestImageRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = append(i.records, record)
	return nil
}

func (i *fakeIndex) RemoveGuestImage(_ context.Context, filename string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.removeErr != nil {
		return i.removeErr
	}
	kept := i.records[:0]
	for _, r := range i.records {
		if r.Filename != filename {
			kept = append(kept, r)
		}
	}
	i.records = kept
	return nil
}

func (i *fakeIndex) WithLock(_ context.Context, _ string, _ time.Duration, fn func() error) error {
	i.mu.Lock()
	i.locks++
	i.mu.Unlock()
	return fn()
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

var errBoom = errors.New("boom")
