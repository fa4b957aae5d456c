package host

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_RunsEventsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(ctx, 10)
	var repaints int32
	loop.AfterEach(func() { atomic.AddInt32(&repaints, 1) })

	got := make([]int, 0, 3)
	finished := make(chan struct{})
	for i := 1; i <= 3; i++ {
		i := i
		if err := loop.Post(func() {
			got = append(got, i)
			if i == 3 {
				close(finished)
			}
		}); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	go loop.Run()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("events not processed")
	}

	done := make(chan struct{})
	_ = loop.Post(func() { close(done) })
	<-done
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("order = %v", got)
		}
	}
	if atomic.LoadInt32(&repaints) < 3 {
		t.Errorf("AfterEach ran %d times", repaints)
	}
}

func TestLoop_GoBringsResultBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := NewLoop(ctx, 1)
	go loop.Run()

	result := make(chan string, 1)
	var value string
	loop.Go(func(ctx context.Context) {
		value = "fetched"
	}, func() {
		result <- value
	})

	select {
	case v := <-result:
		if v != "fetched" {
			t.Errorf("done saw %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("done not called")
	}
}

func TestLoop_After(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := NewLoop(ctx, 1)
	go loop.Run()

	start := time.Now()
	fired := make(chan time.Duration, 1)
	loop.After(30*time.Millisecond, func() { fired <- time.Since(start) })

	select {
	case elapsed := <-fired:
		if elapsed < 30*time.Millisecond {
			t.Errorf("fired after %v", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(ctx, 0)
	cancel()

	if err := loop.Run(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v", err)
	}
	if err := loop.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Post() after stop = %v", err)
	}
	buffered := NewLoop(ctx, 4)
	if err := buffered.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Post() with free buffer after stop = %v", err)
	}
}

func TestUser_DisplayName(t *testing.T) {
	if (User{}).DisplayName() != "Trader" {
		t.Error("empty user should be Trader")
	}
	if (User{FirstName: "Ann"}).DisplayName() != "Ann" {
		t.Error("first name ignored")
	}
}
