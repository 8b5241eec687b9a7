package containers

import (
	"errors"
	"testing"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)

	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	v, err := rq.Dequeue()
	if err != nil || v != 1 {
		t.Fatalf("Dequeue() = %d, %v; want 1, nil", v, err)
	}
	if err := rq.Enqueue(4); err != nil {
		t.Fatalf("enqueue after dequeue: %v", err)
	}

	want := []int{2, 3, 4}
	for _, w := range want {
		got, err := rq.Dequeue()
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("Dequeue() = %d, want %d", got, w)
		}
	}
	if !rq.IsEmpty() {
		t.Errorf("queue should be empty, has %d", rq.Len())
	}
	if _, err := rq.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty from Peek, got %v", err)
	}
}
