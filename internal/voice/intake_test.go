package voice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/veckert/daybook/internal/collection"
	"github.com/veckert/daybook/internal/models"
)

func TestRunIntake_AddsInterpretedTranscripts(t *testing.T) {
	p := &fakeProvider{supported: true}
	a := NewAdapter(p, Options{ActivationDelay: 5 * time.Millisecond, AutoStop: time.Hour})
	mgr := collection.NewManager()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunIntake(ctx, a, mgr, models.ListShopping, logger)
	}()

	speak := func(words string) {
		a.Start()
		waitFor(t, "listening state", func() bool { return a.State() == StateListening })
		p.currentSink().Result([]string{words})
		a.Stop()
		p.currentSink().End()
		waitFor(t, "idle state", func() bool { return a.State() == StateIdle })
	}

	speak("add task buy milk")
	waitFor(t, "item added", func() bool { return mgr.Len() == 1 })

	// A bare trigger word is not actionable and must add nothing.
	speak("create")
	time.Sleep(50 * time.Millisecond)
	if mgr.Len() != 1 {
		t.Fatalf("items = %d, want 1", mgr.Len())
	}

	items := mgr.ByList(models.ListShopping)
	if len(items) != 1 {
		t.Fatalf("shopping items = %d, want 1", len(items))
	}
	if items[0].Title != "Buy milk" {
		t.Errorf("title = %q, want %q", items[0].Title, "Buy milk")
	}
	if items[0].Category != "Dairy & Eggs" {
		t.Errorf("category = %q, want dairy", items[0].Category)
	}

	cancel()
	a.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("intake loop did not stop")
	}
}
