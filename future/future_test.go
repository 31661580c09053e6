package future_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowcompose/dataflow/future"
)

func TestFuture_Succeed(t *testing.T) {
	f, c := future.New[int]()
	c.Succeed(42)

	<-f.Done()
	if !f.IsDone() {
		t.Fatal("expected IsDone() true after resolution")
	}
	val, err := f.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 42 {
		t.Fatalf("got %d, want 42", val)
	}
	if f.Canceled() {
		t.Fatal("expected Canceled() false")
	}
}

func TestFuture_Fail(t *testing.T) {
	wantErr := errors.New("boom")
	f, c := future.New[int]()
	c.Fail(wantErr)

	<-f.Done()
	if f.Err() != wantErr {
		t.Fatalf("got %v, want %v", f.Err(), wantErr)
	}
}

func TestFuture_Cancel(t *testing.T) {
	f, c := future.New[int]()
	c.Cancel()

	<-f.Done()
	if !f.Canceled() {
		t.Fatal("expected Canceled() true")
	}
	if f.Err() != nil {
		t.Fatalf("expected nil error on cancellation, got %v", f.Err())
	}
}

func TestFuture_ResolveOnlyOnce(t *testing.T) {
	f, c := future.New[int]()
	c.Succeed(1)
	c.Succeed(2)
	c.Fail(errors.New("ignored"))

	val, err := f.Result()
	if err != nil || val != 1 {
		t.Fatalf("got (%d, %v), want (1, nil) — first resolution should win", val, err)
	}
}

func TestFuture_Wait(t *testing.T) {
	t.Run("resolves before context cancellation", func(t *testing.T) {
		f, c := future.New[string]()
		go c.Succeed("done")

		val, err := f.Wait(context.Background())
		if err != nil || val != "done" {
			t.Fatalf("got (%q, %v), want (\"done\", nil)", val, err)
		}
	})

	t.Run("context deadline wins", func(t *testing.T) {
		f, _ := future.New[string]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := f.Wait(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("got %v, want context.DeadlineExceeded", err)
		}
	})
}
