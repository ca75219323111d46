package demo

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"cipherlab/internal/catalogue"
)

var fixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(clock.NewMock(), time.Hour)
	sess := r.Create(mustSpec(t, catalogue.SEED))
	if sess.ID == "" || r.Len() != 1 {
		t.Fatalf("create: id=%q len=%d", sess.ID, r.Len())
	}
	got, ok := r.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("session not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatal("unknown id found")
	}
	if !r.Delete(sess.ID) || r.Delete(sess.ID) {
		t.Fatal("delete should succeed exactly once")
	}
}

func TestRegistrySweep(t *testing.T) {
	mock := clock.NewMock()
	r := NewRegistry(mock, 10*time.Minute)
	idle := r.Create(mustSpec(t, catalogue.AES))
	active := r.Create(mustSpec(t, catalogue.AES))
	busy := r.Create(mustSpec(t, catalogue.AES))
	if _, err := busy.begin(nil); err != nil {
		t.Fatal(err)
	}

	mock.Add(6 * time.Minute)
	r.Get(active.ID)
	mock.Add(6 * time.Minute)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if _, ok := r.Get(idle.ID); ok {
		t.Fatal("idle session survived")
	}
	if _, ok := r.Get(active.ID); !ok {
		t.Fatal("active session was dropped")
	}
	if _, ok := r.Get(busy.ID); !ok {
		t.Fatal("busy session was dropped")
	}
}

func TestRegistryRun(t *testing.T) {
	mock := clock.NewMock()
	r := NewRegistry(mock, time.Minute)
	r.Create(mustSpec(t, catalogue.AES))

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	go r.Run(ctx, 30*time.Second, func(n int) { swept <- n })
	defer cancel()

	for {
		mock.Add(30 * time.Second)
		select {
		case n := <-swept:
			if n != 1 || r.Len() != 0 {
				t.Fatalf("swept %d, %d left", n, r.Len())
			}
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}
