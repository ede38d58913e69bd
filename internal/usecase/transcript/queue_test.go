package transcript

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

type mockRecorder struct {
	RecordFunc func(ctx context.Context, fragment Fragment) (*entities.Transcript, error)
}

func (m *mockRecorder) Record(ctx context.Context, fragment Fragment) (*entities.Transcript, error) {
	return m.RecordFunc(ctx, fragment)
}

func TestQueue_RecordsInArrivalOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	rec := &mockRecorder{
		RecordFunc: func(_ context.Context, f Fragment) (*entities.Transcript, error) {
			mu.Lock()
			got = append(got, f.Text)
			mu.Unlock()
			return &entities.Transcript{Text: f.Text}, nil
		},
	}

	q := NewQueue(rec, 16, 1, time.Second, nil)
	if err := q.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for _, text := range []string{"a", "b", "c", "d"} {
		if !q.Submit(Fragment{Text: text}) {
			t.Fatalf("Submit(%q) rejected", text)
		}
	}
	if err := q.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("recorded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recorded[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if stats := q.Stats(); stats.Recorded != 4 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestQueue_DropsWhenFull(t *testing.T) {
	rec := &mockRecorder{
		RecordFunc: func(context.Context, Fragment) (*entities.Transcript, error) {
			return &entities.Transcript{}, nil
		},
	}

	// not started: nothing drains the buffer
	q := NewQueue(rec, 1, 1, time.Second, nil)
	if !q.Submit(Fragment{Text: "kept"}) {
		t.Fatal("first Submit() rejected")
	}
	if q.Submit(Fragment{Text: "dropped"}) {
		t.Fatal("second Submit() accepted on a full queue")
	}
	if q.Stats().Dropped != 1 {
		t.Errorf("dropped = %d, want 1", q.Stats().Dropped)
	}

	if err := q.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := q.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if q.Stats().Recorded != 1 {
		t.Errorf("recorded = %d, want 1", q.Stats().Recorded)
	}
	if q.Submit(Fragment{Text: "late"}) {
		t.Error("Submit() accepted after Stop")
	}
}

func TestQueue_FailuresAreCountedAndSkipped(t *testing.T) {
	calls := 0
	rec := &mockRecorder{
		RecordFunc: func(_ context.Context, f Fragment) (*entities.Transcript, error) {
			calls++
			if f.Text == "bad" {
				return nil, errors.New("db down")
			}
			if f.Text == "panic" {
				panic("unexpected")
			}
			return &entities.Transcript{}, nil
		},
	}

	q := NewQueue(rec, 8, 1, time.Second, nil)
	_ = q.Start(context.Background())
	q.Submit(Fragment{Text: "bad"})
	q.Submit(Fragment{Text: "panic"})
	q.Submit(Fragment{Text: "good"})
	_ = q.Stop()

	stats := q.Stats()
	if stats.Failed != 2 || stats.Recorded != 1 {
		t.Errorf("stats = %+v, want 2 failed and 1 recorded", stats)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (no retries)", calls)
	}
}

func TestQueue_DrainsAfterContextCancel(t *testing.T) {
	done := make(chan struct{}, 1)
	rec := &mockRecorder{
		RecordFunc: func(ctx context.Context, _ Fragment) (*entities.Transcript, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			done <- struct{}{}
			return &entities.Transcript{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := NewQueue(rec, 4, 1, time.Second, nil)
	q.Submit(Fragment{Text: "pending"})
	_ = q.Start(ctx)
	cancel()
	_ = q.Stop()

	select {
	case <-done:
	default:
		t.Fatal("pending fragment was not recorded")
	}
}

func TestQueue_StartStopErrors(t *testing.T) {
	q := NewQueue(&mockRecorder{}, 1, 1, 0, nil)
	if err := q.Stop(); err == nil {
		t.Error("Stop() before Start should fail")
	}
	_ = q.Start(context.Background())
	if err := q.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
	_ = q.Stop()
	if err := q.Start(context.Background()); err == nil {
		t.Error("Start() after Stop should fail")
	}
}
