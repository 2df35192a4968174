package media

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/config"
)

func TestListAdminGalleryNewestFirst(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		store := newFakeStore()
		order := rng.Perm(len(names))
		for i, idx := range order {
			store.put("admin-uploads/"+names[idx], base.Add(time.Duration(i)*time.Minute))
		}
		store.put("admin-uploads/", base.Add(time.Hour))
		store.put("guest-uploads/zz.jpg", base.Add(2*time.Hour))

		svc := NewGalleryService(store, &fakeIndex{}, newFakeCache(), zerolog.Nop())
		urls, err := svc.ListAdminGallery(context.Background())
		require.NoError(t, err)
		require.Len(t, urls, len(names))

		for i := range urls {
			want := "https://cdn.example/admin-uploads/" + names[order[len(order)-1-i]]
			assert.Equal(t, want, urls[i], "round %d position %d", round, i)
		}
	}
}

func TestListAdminGalleryTieBreaksByKey(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.put("admin-uploads/b.jpg", at)
	store.put("admin-uploads/a.jpg", at)

	svc := NewGalleryService(store, &fakeIndex{}, newFakeCache(), zerolog.Nop())
	urls, err := svc.ListAdminGallery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example/admin-uploads/a.jpg", "https://cdn.example/admin-uploads/b.jpg"}, urls)
}

func TestListAdminGalleryServedFromCache(t *testing.T) {
	store := newFakeStore()
	store.put("admin-uploads/a.jpg", time.Now())
	svc := NewGalleryService(store, &fakeIndex{}, newFakeCache(), zerolog.Nop())

	first, err := svc.ListAdminGallery(context.Background())
	require.NoError(t, err)

	// A new object without a finalize must not be visible until invalidation.
	store.put("admin-uploads/b.jpg", time.Now().Add(time.Minute))

	second, err := svc.ListAdminGallery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.listCalls)
}

func TestListEmptyGalleryEncodesAsEmptyList(t *testing.T) {
	cache := newFakeCache()
	svc := NewGalleryService(newFakeStore(), &fakeIndex{}, cache, zerolog.Nop())

	urls, err := svc.ListAdminGallery(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
	assert.Equal(t, "[]", string(cache.entries[CacheKeyAdminGallery]))
}

func TestListGuestGalleryOwners(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.put("guest-uploads/one.jpg", base)
	store.put("guest-uploads/two.jpg", base.Add(time.Minute))
	store.put("guest-uploads/three.jpg", base.Add(2*time.Minute))
	index := &fakeIndex{records: []GuestImageRecord{
		{Filename: "one.jpg", Owner: "Ana"},
		{Filename: "two.jpg", Owner: "Luis"},
		{Filename: "two.jpg", Owner: "Later"},
		{Filename: "ghost.jpg", Owner: "Nobody"},
	}}

	svc := NewGalleryService(store, index, newFakeCache(), zerolog.Nop())
	images, err := svc.ListGuestGallery(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []GuestImage{
		{URL: "https://cdn.example/guest-uploads/three.jpg", Filename: "three.jpg", Owner: UnknownOwner},
		{URL: "https://cdn.example/guest-uploads/two.jpg", Filename: "two.jpg", Owner: "Luis"},
		{URL: "https://cdn.example/guest-uploads/one.jpg", Filename: "one.jpg", Owner: "Ana"},
	}, images)
}

func TestListGuestGalleryIndexUnavailable(t *testing.T) {
	store := newFakeStore()
	store.put("guest-uploads/one.jpg", time.Now())
	index := &fakeIndex{records: []GuestImageRecord{{Filename: "one.jpg", Owner: "Ana"}}, readErr: errBoom}

	svc := NewGalleryService(store, index, newFakeCache(), zerolog.Nop())
	images, err := svc.ListGuestGallery(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, UnknownOwner, images[0].Owner)
}

func TestListGalleryStoreFailureIsNotCached(t *testing.T) {
	store := newFakeStore()
	store.listErr = errBoom
	cache := newFakeCache()
	svc := NewGalleryService(store, &fakeIndex{}, cache, zerolog.Nop())

	_, err := svc.ListAdminGallery(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Empty(t, cache.entries)
}

func TestGuestDeleteThenListExcludesFile(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	index := &fakeIndex{}
	cache := newFakeCache()
	coordinator := NewCoordinator(&config.Config{}, store, index, cache, zerolog.Nop())
	gallery := NewGalleryService(store, index, cache, zerolog.Nop())

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("guest-uploads/f%d.jpg", i)
		store.put(key, time.Now().Add(time.Duration(i)*time.Second))
		_, err := coordinator.FinalizeUpload(ctx, FinalizeRequest{Key: key, Owner: "Maria", Class: ClassGuest})
		require.NoError(t, err)
	}

	before, err := gallery.ListGuestGallery(ctx)
	require.NoError(t, err)
	require.Len(t, before, 3)
	callsBefore := store.listCalls

	require.NoError(t, coordinator.DeleteImage(ctx, ClassGuest, "f1.jpg"))

	after, err := gallery.ListGuestGallery(ctx)
	require.NoError(t, err)
	assert.Equal(t, callsBefore+1, store.listCalls)
	require.Len(t, after, 2)
	for _, img := range after {
		assert.NotEqual(t, "f1.jpg", img.Filename)
		assert.Equal(t, "Maria", img.Owner)
	}
}

func TestAdminFinalizeShowsInNextListing(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newFakeCache()
	coordinator := NewCoordinator(&config.Config{}, store, &fakeIndex{}, cache, zerolog.Nop())
	gallery := NewGalleryService(store, &fakeIndex{}, cache, zerolog.Nop())

	urls, err := gallery.ListAdminGallery(ctx)
	require.NoError(t, err)
	require.Empty(t, urls)

	ticket, err := coordinator.RequestUploadURL(ctx, UploadRequest{Filename: "launch.png", Class: ClassAdmin})
	require.NoError(t, err)
	store.put(ticket.Key, time.Now())
	_, err = coordinator.FinalizeUpload(ctx, FinalizeRequest{Key: ticket.Key, Class: ClassAdmin})
	require.NoError(t, err)

	urls, err = gallery.ListAdminGallery(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ticket.PublicURL}, urls)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{name: "all", page: 1, pageSize: 0, want: items},
		{name: "first page", page: 1, pageSize: 2, want: []int{1, 2}},
		{name: "last partial page", page: 3, pageSize: 2, want: []int{5}},
		{name: "past the end", page: 4, pageSize: 2, want: []int{}},
		{name: "page below one", page: 0, pageSize: 3, want: []int{1, 2, 3}},
		{name: "huge page", page: 1 << 62, pageSize: 4, want: []int{}},
		{name: "max int page", page: math.MaxInt, pageSize: math.MaxInt, want: []int{}},
		{name: "huge page size", page: 1, pageSize: math.MaxInt, want: items},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.page, tt.pageSize))
		})
	}
}
