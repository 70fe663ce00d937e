package gate

import (
	"sync"
	"testing"
)

func TestThresholdFlip(t *testing.T) {
	g := New(50)

	for i := 0; i < 49; i++ {
		g.OnFeedback(true)
	}
	if status := g.Status(); status.Ready {
		t.Fatalf("gate ready at %d/%d", status.Count, status.MinRequired)
	}

	g.OnFeedback(true)
	status := g.Status()
	if !status.Ready {
		t.Fatalf("gate not ready at %d/%d", status.Count, status.MinRequired)
	}
	if status.Count != 50 {
		t.Fatalf("count = %d, want 50", status.Count)
	}
}

func TestCorrectFeedbackDoesNotCount(t *testing.T) {
	g := New(5)
	for i := 0; i < 10; i++ {
		g.OnFeedback(false)
	}
	if status := g.Status(); status.Count != 0 {
		t.Fatalf("count = %d, want 0", status.Count)
	}
}

func TestConsumeResets(t *testing.T) {
	g := New(3)
	g.OnFeedback(true)
	g.OnFeedback(true)
	g.OnFeedback(true)

	if n := g.Consume(); n != 3 {
		t.Fatalf("Consume() = %d, want 3", n)
	}
	if status := g.Status(); status.Count != 0 || status.Ready {
		t.Fatalf("gate not reset after consume: %+v", status)
	}
}

func TestDeleteDecrementsWithFloor(t *testing.T) {
	g := New(10)
	g.OnFeedback(true)

	g.OnFeedbackDeleted(true)
	if status := g.Status(); status.Count != 0 {
		t.Fatalf("count = %d, want 0", status.Count)
	}

	// Deleting more than was ever recorded must not go negative.
	g.OnFeedbackDeleted(true)
	g.OnFeedbackDeleted(true)
	if status := g.Status(); status.Count != 0 {
		t.Fatalf("count went negative: %d", status.Count)
	}

	g.OnFeedback(true)
	if status := g.Status(); status.Count != 1 {
		t.Fatalf("count = %d, want 1", status.Count)
	}
}

func TestDeleteOfCorrectFeedbackIgnored(t *testing.T) {
	g := New(10)
	g.OnFeedback(true)
	g.OnFeedbackDeleted(false)
	if status := g.Status(); status.Count != 1 {
		t.Fatalf("count = %d, want 1", status.Count)
	}
}

func TestSeedClampsNegative(t *testing.T) {
	g := New(10)
	g.Seed(-5)
	if status := g.Status(); status.Count != 0 {
		t.Fatalf("count = %d, want 0", status.Count)
	}
}

func TestConcurrentConsumeClaimsEachIncrementOnce(t *testing.T) {
	g := New(1)
	const increments = 1000

	var wg sync.WaitGroup
	for i := 0; i < increments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.OnFeedback(true)
		}()
	}

	consumed := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumed <- g.Consume()
		}()
	}
	wg.Wait()
	close(consumed)

	total := g.Consume()
	for n := range consumed {
		total += n
	}
	if total != increments {
		t.Fatalf("consumed %d increments in total, want %d", total, increments)
	}
}
