package sessiondata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/pkg/models"
)

func TestFetchDetails_CachesByID(t *testing.T) {
	calls := 0
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			calls++
			return models.SessionDetails{ID: id, Feedback: "solid demo"}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		details, err := cache.FetchDetails(ctx, "s1")
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if details.Feedback != "solid demo" {
			t.Fatalf("unexpected details: %+v", details)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 request for repeated fetches, got %d", calls)
	}
}

func TestInvalidateDetails_ForcesRefetchButKeepsValueReadable(t *testing.T) {
	calls := 0
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			calls++
			return models.SessionDetails{ID: id, Feedback: "v2"}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	cache.FetchDetails(ctx, "s1")
	cache.InvalidateDetails("s1")

	// The stale value is still readable until the refetch lands.
	if _, ok := cache.Details("s1"); !ok {
		t.Fatal("expected invalidated entry to stay readable")
	}

	cache.FetchDetails(ctx, "s1")
	if calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", calls)
	}
}

func TestPrefetchDetails_FailureIsSilent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			defer wg.Done()
			return models.SessionDetails{}, errors.New("boom")
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())

	cache.PrefetchDetails(context.Background(), "s1")
	wg.Wait()

	if _, ok := cache.Details("s1"); ok {
		t.Fatal("expected nothing cached for failed prefetch")
	}
}

func TestPrefetchDetails_RapidCallsFetchOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	done := make(chan struct{}, 2)
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			<-release
			done <- struct{}{}
			return models.SessionDetails{ID: id, Feedback: "warm"}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	// The second prefetch lands before the first one's fetch has
	// started; it must still see the entry as claimed.
	cache.PrefetchDetails(ctx, "s1")
	cache.PrefetchDetails(ctx, "s1")
	close(release)
	<-done

	// The fetch settles shortly after the fake returns.
	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := cache.Details("s1"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("prefetched details never cached")
		}
		time.Sleep(time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestUpdateFeedback_OptimisticThenConfirmed(t *testing.T) {
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			return models.SessionDetails{ID: id, Feedback: "A"}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	cache.FetchDetails(ctx, "s1")

	applied := make(chan struct{})
	release := make(chan struct{})
	client.bulkFn = func(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
		close(applied)
		<-release
		return models.BulkUpdateResult{Updated: 1}, nil
	}

	done := make(chan error, 1)
	go func() { done <- cache.UpdateFeedback(ctx, "s1", "B") }()
	<-applied

	// Before the mutation settles the cache already shows the new value.
	details, ok := cache.Details("s1")
	if !ok || details.Feedback != "B" {
		t.Fatalf("expected optimistic value B, got %+v ok=%v", details, ok)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("UpdateFeedback: %v", err)
	}
}

func TestProperty6_OptimisticRollback(t *testing.T) {
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			return models.SessionDetails{ID: id, Feedback: "A"}, nil
		},
		bulkFn: func(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
			return models.BulkUpdateResult{}, errors.New("network down")
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	cache.FetchDetails(ctx, "s1")

	if err := cache.UpdateFeedback(ctx, "s1", "B"); err == nil {
		t.Fatal("expected update error")
	}

	details, ok := cache.Details("s1")
	if !ok {
		t.Fatal("expected details still cached after rollback")
	}
	if details.Feedback != "A" {
		t.Fatalf("expected rollback to feedback A, got %q", details.Feedback)
	}
}

func TestUpdateFeedback_ServerRejectionRollsBack(t *testing.T) {
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			return models.SessionDetails{ID: id, Feedback: "A"}, nil
		},
		bulkFn: func(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
			return models.BulkUpdateResult{Updated: 0, Failed: ids}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	cache.FetchDetails(ctx, "s1")

	err := cache.UpdateFeedback(ctx, "s1", "B")
	if !errors.Is(err, ErrUpdateRejected) {
		t.Fatalf("expected ErrUpdateRejected, got %v", err)
	}
	details, _ := cache.Details("s1")
	if details.Feedback != "A" {
		t.Fatalf("expected rollback to A, got %q", details.Feedback)
	}
}

func TestBulkUpdate_InvalidatesTouchedDetails(t *testing.T) {
	detailCalls := 0
	client := &fakeClient{
		detailsFn: func(ctx context.Context, id string) (models.SessionDetails, error) {
			detailCalls++
			return models.SessionDetails{ID: id}, nil
		},
	}
	cache := NewCache(client, 10, zerolog.Nop())
	ctx := context.Background()

	cache.FetchDetails(ctx, "s1")
	cache.FetchDetails(ctx, "s2")

	if _, err := cache.BulkUpdate(ctx, []string{"s1", "s2"}, "good energy"); err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}

	cache.FetchDetails(ctx, "s1")
	cache.FetchDetails(ctx, "s2")
	if detailCalls != 4 {
		t.Fatalf("expected refetch of both invalidated entries, got %d calls", detailCalls)
	}
}
