package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/game"
)

func TestMemoryCooldownArmsAndBlocks(t *testing.T) {
	t.Parallel()

	cd := game.NewMemoryCooldowns()
	ctx := context.Background()

	ok, _, err := cd.Check(ctx, 1, 10, "crime_0", time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !ok {
		t.Fatal("first check should arm and pass")
	}

	ok, remaining, err := cd.Check(ctx, 1, 10, "crime_0", time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ok {
		t.Fatal("second check should be blocked")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining = %v, want within (0, 1m]", remaining)
	}
}

func TestMemoryCooldownKeysAreIndependent(t *testing.T) {
	t.Parallel()

	cd := game.NewMemoryCooldowns()
	ctx := context.Background()

	if ok, _, _ := cd.Check(ctx, 1, 10, "attack", time.Minute); !ok {
		t.Fatal("first user should pass")
	}
	if ok, _, _ := cd.Check(ctx, 2, 10, "attack", time.Minute); !ok {
		t.Error("different user should not share the cooldown")
	}
	if ok, _, _ := cd.Check(ctx, 1, 20, "attack", time.Minute); !ok {
		t.Error("different chat should not share the cooldown")
	}
	if ok, _, _ := cd.Check(ctx, 1, 10, "casino", time.Minute); !ok {
		t.Error("different action should not share the cooldown")
	}
}

func TestMemoryCooldownExpires(t *testing.T) {
	t.Parallel()

	cd := game.NewMemoryCooldowns()
	ctx := context.Background()

	if ok, _, _ := cd.Check(ctx, 1, 10, "casino", 10*time.Millisecond); !ok {
		t.Fatal("first check should pass")
	}
	time.Sleep(20 * time.Millisecond)
	if ok, _, _ := cd.Check(ctx, 1, 10, "casino", time.Minute); !ok {
		t.Error("check after expiry should pass")
	}
}

func TestMemoryCooldownClear(t *testing.T) {
	t.Parallel()

	cd := game.NewMemoryCooldowns()
	ctx := context.Background()

	if ok, _, _ := cd.Check(ctx, 1, 10, "attack", time.Hour); !ok {
		t.Fatal("first check should pass")
	}
	if err := cd.Clear(ctx, 1, 10, "attack"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ok, _, _ := cd.Check(ctx, 1, 10, "attack", time.Hour); !ok {
		t.Error("check after clear should pass")
	}
}
