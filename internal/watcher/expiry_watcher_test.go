package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	testhelpers "github.com/rewardly/giftvault/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitForMarks(t *testing.T, marker *testhelpers.ExpiryMarkerStub, want int) []int64 {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		marker.Lock()
		n := len(marker.Marked)
		marker.Unlock()
		if n >= want {
			marker.Lock()
			defer marker.Unlock()
			return append([]int64(nil), marker.Marked...)
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d marks", want)
	return nil
}

func TestWatcherMarksReceivedEvents(t *testing.T) {
	stream := &testhelpers.ExpiryStreamStub{Events: make(chan int64, 4)}
	marker := &testhelpers.ExpiryMarkerStub{}
	watcher := NewExpiryWatcher(stream, marker, testLogger())

	watcher.Start(context.Background())
	defer watcher.Stop()

	stream.Events <- 7
	stream.Events <- 9

	marked := waitForMarks(t, marker, 2)
	if marked[0] != 7 || marked[1] != 9 {
		t.Errorf("unexpected marks %v", marked)
	}
}

func TestWatcherStartTwiceSubscribesOnce(t *testing.T) {
	stream := &testhelpers.ExpiryStreamStub{Events: make(chan int64)}
	marker := &testhelpers.ExpiryMarkerStub{}
	watcher := NewExpiryWatcher(stream, marker, testLogger())

	watcher.Start(context.Background())
	watcher.Start(context.Background())
	defer watcher.Stop()

	stream.Lock()
	defer stream.Unlock()
	if stream.Subscribed != 1 {
		t.Errorf("expected a single subscription, got %d", stream.Subscribed)
	}
}

func TestWatcherSubscribeFailureDoesNotBlockStop(t *testing.T) {
	stream := &testhelpers.ExpiryStreamStub{SubscribeErr: errors.New("broker down")}
	marker := &testhelpers.ExpiryMarkerStub{}
	watcher := NewExpiryWatcher(stream, marker, testLogger())

	watcher.Start(context.Background())
	watcher.Stop()

	marker.Lock()
	defer marker.Unlock()
	if len(marker.Marked) != 0 {
		t.Errorf("expected no marks, got %v", marker.Marked)
	}
}

func TestWatcherMarkErrorKeepsLoopRunning(t *testing.T) {
	stream := &testhelpers.ExpiryStreamStub{Events: make(chan int64, 2)}
	marker := &testhelpers.ExpiryMarkerStub{Err: errors.New("storage down")}
	watcher := NewExpiryWatcher(stream, marker, testLogger())

	watcher.Start(context.Background())
	defer watcher.Stop()

	stream.Events <- 1

	// Clear the error and confirm later events still get marked.
	time.Sleep(10 * time.Millisecond)
	marker.Lock()
	marker.Err = nil
	marker.Unlock()

	stream.Events <- 2
	marked := waitForMarks(t, marker, 1)
	if marked[0] != 2 {
		t.Errorf("expected id 2 marked after recovery, got %v", marked)
	}
}

func TestWatcherStreamCloseEndsLoop(t *testing.T) {
	events := make(chan int64)
	stream := &testhelpers.ExpiryStreamStub{Events: events}
	watcher := NewExpiryWatcher(stream, &testhelpers.ExpiryMarkerStub{}, testLogger())

	watcher.Start(context.Background())
	close(events)

	done := make(chan struct{})
	go func() {
		watcher.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after stream close")
	}
}

func TestWatcherStopCancelsLoop(t *testing.T) {
	stream := &testhelpers.ExpiryStreamStub{Events: make(chan int64)}
	watcher := NewExpiryWatcher(stream, &testhelpers.ExpiryMarkerStub{}, testLogger())

	watcher.Start(context.Background())

	done := make(chan struct{})
	go func() {
		watcher.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
