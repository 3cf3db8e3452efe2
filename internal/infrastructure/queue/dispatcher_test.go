package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/api/metrics"
	"github.com/erickogi/cards-restful/internal/core/domain"
)

type recordingRepo struct {
	mu   sync.Mutex
	seen []domain.CardActivity
	err  error
}

func (r *recordingRepo) InsertActivity(_ context.Context, a domain.CardActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.seen = append(r.seen, a)
	return nil
}

func (r *recordingRepo) snapshot() []domain.CardActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CardActivity(nil), r.seen...)
}

func activity(cardID string, action domain.CardAction) domain.CardActivity {
	return domain.CardActivity{CardID: cardID, ActorID: "u1", Action: action, At: time.Now()}
}

func TestDispatcher_PreservesPerCardOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, 64, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	actions := []domain.CardAction{domain.ActionCreated, domain.ActionUpdated, domain.ActionUpdated, domain.ActionDeleted}
	for i := 0; i < 5; i++ {
		for _, a := range actions {
			d.Publish(activity(strconv.Itoa(i), a))
		}
	}

	cancel()
	d.Wait()

	seen := repo.snapshot()
	if len(seen) != 20 {
		t.Fatalf("expected 20 recorded activities, got %d", len(seen))
	}

	perCard := map[string][]domain.CardAction{}
	for _, a := range seen {
		perCard[a.CardID] = append(perCard[a.CardID], a.Action)
	}
	for card, got := range perCard {
		for i := range actions {
			if got[i] != actions[i] {
				t.Fatalf("card %s: out of order activities %v", card, got)
			}
		}
	}
}

func TestDispatcher_DropsWhenShardFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, 1, repo, zerolog.Nop())
	before := testutil.ToFloat64(metrics.ActivityDroppedTotal)

	// Workers are not started, so the single slot fills immediately.
	d.Publish(activity("1", domain.ActionCreated))
	d.Publish(activity("1", domain.ActionUpdated))
	d.Publish(activity("2", domain.ActionCreated))

	if got := testutil.ToFloat64(metrics.ActivityDroppedTotal) - before; got != 2 {
		t.Fatalf("expected 2 drops, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if seen := repo.snapshot(); len(seen) != 1 || seen[0].Action != domain.ActionCreated {
		t.Fatalf("expected only the first activity to be recorded, got %+v", seen)
	}
}

func TestDispatcher_RecorderErrorsAreCounted(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db down")}
	d := NewDispatcher(1, 4, repo, zerolog.Nop())
	before := testutil.ToFloat64(metrics.ActivityRecordedTotal.WithLabelValues("error"))

	d.Publish(activity("1", domain.ActionCreated))
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if got := testutil.ToFloat64(metrics.ActivityRecordedTotal.WithLabelValues("error")) - before; got != 1 {
		t.Fatalf("expected 1 recording error, got %v", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingRepo{}, zerolog.Nop())
	for _, id := range []string{"1", "64f0c2a1e4b0a1b2c3d4e5f6", ""} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("shard %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard for %q is not deterministic", id)
		}
	}
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(0, 0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers || cap(d.workers[0]) != channelBuffer {
		t.Fatalf("unexpected defaults: workers=%d buffer=%d", len(d.workers), cap(d.workers[0]))
	}
}
