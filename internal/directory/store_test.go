package directory

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tutorboard/pkg/database"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := database.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "directory.db")

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func seedUser(t *testing.T, store *Store, user *types.User) {
	t.Helper()

	if err := store.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", user.ID, err)
	}
}

func TestStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice", Role: types.RoleStudent})

	user, err := store.GetUser(ctx, "alice@school.edu")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.FullName != "Alice" || user.Role != types.RoleStudent {
		t.Errorf("unexpected user %+v", user)
	}
	if user.Prompt != nil {
		t.Errorf("expected nil prompt, got %q", *user.Prompt)
	}
	if user.Points != 0 {
		t.Errorf("expected 0 points, got %d", user.Points)
	}
}

func TestStore_GetUnknownUser(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser(context.Background(), "nobody@school.edu")
	if !errors.Is(err, interfaces.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_UpsertRejectsInvalidID(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertUser(context.Background(), &types.User{ID: "has spaces", FullName: "X", Role: types.RoleStudent})
	if !errors.Is(err, types.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestStore_UpsertPreservesPoints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice", Role: types.RoleStudent})
	if err := store.IncrementPoints(ctx, "alice@school.edu", 7); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	// A login-time upsert must not reset the accumulated total.
	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice B.", Role: types.RoleStudent})

	user, err := store.GetUser(ctx, "alice@school.edu")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.Points != 7 {
		t.Errorf("points reset by upsert: got %d, want 7", user.Points)
	}
	if user.FullName != "Alice B." {
		t.Errorf("name not updated: got %q", user.FullName)
	}
}

func TestStore_FindTeacherPrompt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No teacher row at all.
	if _, ok, err := store.FindTeacherPrompt(ctx); err != nil || ok {
		t.Errorf("expected no topic with no teacher, got ok=%v err=%v", ok, err)
	}

	// Teacher with no prompt set.
	seedUser(t, store, &types.User{ID: "teach@school.edu", FullName: "Mr. Chalk", Role: types.RoleTeacher})
	if _, ok, err := store.FindTeacherPrompt(ctx); err != nil || ok {
		t.Errorf("expected no topic with NULL prompt, got ok=%v err=%v", ok, err)
	}

	// Empty string counts as unset.
	empty := ""
	if err := store.SetPrompt(ctx, "teach@school.edu", &empty); err != nil {
		t.Fatalf("set prompt failed: %v", err)
	}
	if _, ok, err := store.FindTeacherPrompt(ctx); err != nil || ok {
		t.Errorf("expected no topic with empty prompt, got ok=%v err=%v", ok, err)
	}

	// A real topic.
	topic := "photosynthesis"
	if err := store.SetPrompt(ctx, "teach@school.edu", &topic); err != nil {
		t.Fatalf("set prompt failed: %v", err)
	}
	got, ok, err := store.FindTeacherPrompt(ctx)
	if err != nil || !ok {
		t.Fatalf("expected topic, got ok=%v err=%v", ok, err)
	}
	if got != "photosynthesis" {
		t.Errorf("unexpected topic %q", got)
	}

	// Clearing reverts to unset.
	if err := store.SetPrompt(ctx, "teach@school.edu", nil); err != nil {
		t.Fatalf("clear prompt failed: %v", err)
	}
	if _, ok, _ := store.FindTeacherPrompt(ctx); ok {
		t.Error("expected no topic after clearing")
	}
}

func TestStore_SetPromptUnknownUser(t *testing.T) {
	store := newTestStore(t)

	topic := "photosynthesis"
	err := store.SetPrompt(context.Background(), "nobody@school.edu", &topic)
	if !errors.Is(err, interfaces.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_IncrementPoints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice", Role: types.RoleStudent})

	for _, award := range []int{5, 0, 14} {
		if err := store.IncrementPoints(ctx, "alice@school.edu", award); err != nil {
			t.Fatalf("increment by %d failed: %v", award, err)
		}
	}

	user, err := store.GetUser(ctx, "alice@school.edu")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.Points != 19 {
		t.Errorf("expected 19 points, got %d", user.Points)
	}
}

func TestStore_IncrementPointsUnknownUser(t *testing.T) {
	store := newTestStore(t)

	err := store.IncrementPoints(context.Background(), "nobody@school.edu", 5)
	if !errors.Is(err, interfaces.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ConcurrentIncrements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice", Role: types.RoleStudent})

	const workers = 10
	const perWorker = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if err := store.IncrementPoints(ctx, "alice@school.edu", 1); err != nil {
					t.Errorf("increment failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	user, err := store.GetUser(ctx, "alice@school.edu")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.Points != workers*perWorker {
		t.Errorf("lost updates: got %d, want %d", user.Points, workers*perWorker)
	}
}

func TestStore_HealthCheck(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := store.HealthCheck(ctx); err != nil {
		t.Errorf("health check failed: %v", err)
	}
}

func TestStore_CloseRejectsFurtherWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, &types.User{ID: "alice@school.edu", FullName: "Alice", Role: types.RoleStudent})

	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second close should be a no-op: %v", err)
	}

	if err := store.IncrementPoints(ctx, "alice@school.edu", 1); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := store.HealthCheck(ctx); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}
