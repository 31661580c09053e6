package broadcaster_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/broadcaster"
	"github.com/flowcompose/dataflow/config"
	"github.com/flowcompose/dataflow/container"
	"github.com/flowcompose/dataflow/faults"
)

func await(t *testing.T, f interface{ Done() <-chan struct{} }) {
	t.Helper()
	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
}

func TestBroadcaster_DeliversToEveryTarget(t *testing.T) {
	// Targets are read only after the broadcaster completes, so each must
	// hold all n items; a smaller capacity back-pressures X forever.
	opts := config.BlockOptions{BoundedCapacity: 64, DegreeOfParallelism: 1}
	b := broadcaster.New[int](container.NextName("Broadcaster"), config.DefaultContainerOptions(), nil, opts)

	primary := block.NewBufferBlock[int]("primary", opts)
	primaryContainer := container.NewContainer1[int](container.NextName("Primary"), config.DefaultContainerOptions(), primary)

	extra1 := block.NewBufferBlock[int]("extra1", opts)
	extra1Container := container.NewContainer1[int](container.NextName("Extra1"), config.DefaultContainerOptions(), extra1)

	extra2 := block.NewBufferBlock[int]("extra2", opts)
	extra2Container := container.NewContainer1[int](container.NextName("Extra2"), config.DefaultContainerOptions(), extra2)

	if err := b.GoTo(primaryContainer, primary, nil); err != nil {
		t.Fatalf("GoTo(primary): %v", err)
	}
	if err := b.GoTo(extra1Container, extra1, nil); err != nil {
		t.Fatalf("GoTo(extra1): %v", err)
	}
	if err := b.GoTo(extra2Container, extra2, nil); err != nil {
		t.Fatalf("GoTo(extra2): %v", err)
	}

	const n = 50
	for i := 0; i < n; i++ {
		if err := b.InputBlock.Post(context.Background(), i); err != nil {
			t.Fatalf("Post(%d): %v", i, err)
		}
	}
	b.InputBlock.Complete()

	await(t, b.CompletionTask())
	if err := b.CompletionTask().Err(); err != nil {
		t.Fatalf("broadcaster failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	for name, target := range map[string]*block.BufferBlock[int]{"primary": primary, "extra1": extra1, "extra2": extra2} {
		count := 0
		for range target.Out() {
			count++
		}
		if count != n {
			t.Fatalf("%s received %d items, want %d", name, count, n)
		}
	}
}

func TestBroadcaster_RejectsPredicateLinking(t *testing.T) {
	opts := config.DefaultBlockOptions()
	b := broadcaster.New[int](container.NextName("Broadcaster"), config.DefaultContainerOptions(), nil, opts)

	target := block.NewBufferBlock[int]("target", opts)
	targetContainer := container.NewContainer1[int](container.NextName("Target"), config.DefaultContainerOptions(), target)

	pred := container.Predicate[int](func(int) bool { return true })
	err := b.GoTo(targetContainer, target, &pred)

	var ia *faults.IllegalArgumentError
	if err == nil {
		t.Fatal("expected IllegalArgumentError")
	}
	if !asIllegalArgument(err, &ia) {
		t.Fatalf("got %v, want IllegalArgumentError", err)
	}
}

func asIllegalArgument(err error, target **faults.IllegalArgumentError) bool {
	ia, ok := err.(*faults.IllegalArgumentError)
	if !ok {
		return false
	}
	*target = ia
	return true
}
