package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wanderlab/kotoba/pkg/language"
)

func newTestStore() *Store {
	logger, _ := test.NewNullLogger()
	return NewStore(logger)
}

func TestLazyDefaultPair(t *testing.T) {
	t.Parallel()

	store := newTestStore()

	pair := store.Pair("u1")
	if pair.From != language.ZhTW || pair.To != language.EN {
		t.Errorf("default pair = %s -> %s, want zh-TW -> en", pair.From, pair.To)
	}
}

func TestSetPair(t *testing.T) {
	t.Parallel()

	store := newTestStore()

	if err := store.SetPair("u1", language.ZhTW, language.JA); err != nil {
		t.Fatalf("SetPair failed: %v", err)
	}
	pair := store.Pair("u1")
	if pair.From != language.ZhTW || pair.To != language.JA {
		t.Errorf("pair = %s -> %s, want zh-TW -> ja", pair.From, pair.To)
	}
}

func TestSetPairRejectsIdenticalEnds(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if err := store.SetPair("u1", language.ZhTW, language.JA); err != nil {
		t.Fatalf("SetPair failed: %v", err)
	}

	err := store.SetPair("u1", language.EN, language.EN)
	if !errors.Is(err, ErrSamePair) {
		t.Fatalf("expected ErrSamePair, got %v", err)
	}

	// Previous state must be unchanged.
	pair := store.Pair("u1")
	if pair.From != language.ZhTW || pair.To != language.JA {
		t.Errorf("pair mutated after rejected update: %s -> %s", pair.From, pair.To)
	}
}

func TestSwapTwiceRestoresPair(t *testing.T) {
	t.Parallel()

	store := newTestStore()

	swapped := store.Swap("u1")
	if swapped.From != language.EN || swapped.To != language.ZhTW {
		t.Errorf("after one swap: %s -> %s, want en -> zh-TW", swapped.From, swapped.To)
	}

	restored := store.Swap("u1")
	if restored.From != language.ZhTW || restored.To != language.EN {
		t.Errorf("after two swaps: %s -> %s, want zh-TW -> en", restored.From, restored.To)
	}
}

func TestHistoryRingCapacity(t *testing.T) {
	t.Parallel()

	store := newTestStore()

	for i := 0; i < DefaultHistoryCapacity+1; i++ {
		store.Record("u1", Record{
			Original:  fmt.Sprintf("original-%d", i),
			Modality:  ModalityText,
			CreatedAt: time.Now(),
		})
	}

	history := store.History("u1")
	if len(history) != DefaultHistoryCapacity {
		t.Fatalf("history length = %d, want %d", len(history), DefaultHistoryCapacity)
	}

	// Index 0 is the most recent insertion.
	if history[0].Original != fmt.Sprintf("original-%d", DefaultHistoryCapacity) {
		t.Errorf("head = %q, want the newest record", history[0].Original)
	}

	// The very first record has been evicted.
	for _, rec := range history {
		if rec.Original == "original-0" {
			t.Error("oldest record should have been evicted")
		}
	}
}

func TestHistoryIsACopy(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	store.Record("u1", Record{Original: "a", Translated: "b"})

	history := store.History("u1")
	history[0].Original = "mutated"

	if store.History("u1")[0].Original != "a" {
		t.Error("History must return copies, not shared backing storage")
	}
}

func TestHistoryEmptyForUnknownUser(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if got := store.History("nobody"); len(got) != 0 {
		t.Errorf("expected empty history, got %d records", len(got))
	}
}
