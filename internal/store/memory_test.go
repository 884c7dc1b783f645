package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

type noWords struct{}

func (noWords) Sample(*rand.Rand, int) ([]string, error) { return nil, errors.New("unused") }

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "general"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	s := game.NewSession(noWords{})
	_ = st.Save(ctx, "general", s)
	got, err := st.Get(ctx, "general")
	if err != nil || got != s {
		t.Fatalf("got %v, %v", got, err)
	}
	_ = st.Delete(ctx, "general")
	_ = st.Delete(ctx, "general")
	if _, err := st.Get(ctx, "general"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	a, b := game.NewSession(noWords{}), game.NewSession(noWords{})
	_ = st.Save(ctx, "a", a)
	_ = st.Save(ctx, "b", b)
	a.Join("ann", game.Red)

	gotB, _ := st.Get(ctx, "b")
	if len(gotB.Snapshot().Teams[game.Red].Members) != 0 {
		t.Error("join leaked across channels")
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_ = st.Save(ctx, "old", game.NewSession(noWords{}))

	if dropped := st.Sweep(ctx, time.Now().Add(-time.Hour)); len(dropped) != 0 {
		t.Fatalf("dropped fresh session: %v", dropped)
	}
	dropped := st.Sweep(ctx, time.Now().Add(time.Second))
	if len(dropped) != 1 || dropped[0] != "old" {
		t.Fatalf("dropped = %v", dropped)
	}
	if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
