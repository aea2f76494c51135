package service

import (
	"fmt"
	"sync"
	"testing"
)

func TestFeedMostRecentFirst(t *testing.T) {
	feed := NewFeed(10)
	feed.Push("crm_sync", "info", "first")
	feed.Push("crm_sync", "error", "second")
	feed.Push("completeness", "warning", "third")

	got := feed.List(0)
	if got.Total != 3 {
		t.Fatalf("expected 3 entries, got %d", got.Total)
	}
	if got.Items[0].Message != "third" || got.Items[2].Message != "first" {
		t.Fatalf("expected most-recent-first ordering, got %v", got.Items)
	}
}

func TestFeedEvictsOldestAtCapacity(t *testing.T) {
	feed := NewFeed(3)
	for i := 1; i <= 5; i++ {
		feed.Push("test", "info", fmt.Sprintf("entry-%d", i))
	}

	got := feed.List(0)
	if got.Total != 3 {
		t.Fatalf("expected capacity 3, got %d", got.Total)
	}
	if got.Items[0].Message != "entry-5" {
		t.Fatalf("expected newest entry first, got %s", got.Items[0].Message)
	}
	for _, item := range got.Items {
		if item.Message == "entry-1" || item.Message == "entry-2" {
			t.Fatalf("expected oldest entries evicted, found %s", item.Message)
		}
	}
}

func TestFeedListLimit(t *testing.T) {
	feed := NewFeed(10)
	for i := 0; i < 6; i++ {
		feed.Push("test", "info", fmt.Sprintf("entry-%d", i))
	}

	got := feed.List(2)
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Total != 6 {
		t.Fatalf("expected total 6, got %d", got.Total)
	}
}

func TestFeedConcurrentPushes(t *testing.T) {
	feed := NewFeed(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			feed.Push("test", "info", fmt.Sprintf("entry-%d", n))
		}(i)
	}
	wg.Wait()

	if feed.Len() != 20 {
		t.Fatalf("expected 20 entries, got %d", feed.Len())
	}
}

func TestFeedDefaultCapacityFallback(t *testing.T) {
	feed := NewFeed(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		feed.Push("test", "info", "x")
	}
	if feed.Len() != DefaultCapacity {
		t.Fatalf("expected %d entries, got %d", DefaultCapacity, feed.Len())
	}
}
