package prompt

import (
	"context"
	"errors"
	"testing"

	"tutorboard/pkg/types"
)

type fakeDirectory struct {
	prompt string
	ok     bool
	err    error
	calls  int
}

func (d *fakeDirectory) FindTeacherPrompt(context.Context) (string, bool, error) {
	d.calls++
	return d.prompt, d.ok, d.err
}

func (d *fakeDirectory) GetUser(context.Context, string) (*types.User, error) { return nil, nil }
func (d *fakeDirectory) IncrementPoints(context.Context, string, int) error   { return nil }
func (d *fakeDirectory) UpsertUser(context.Context, *types.User) error        { return nil }
func (d *fakeDirectory) SetPrompt(context.Context, string, *string) error     { return nil }
func (d *fakeDirectory) HealthCheck(context.Context) error                    { return nil }
func (d *fakeDirectory) Close() error                                         { return nil }

func TestResolver_CurrentTopic(t *testing.T) {
	dir := &fakeDirectory{prompt: "photosynthesis", ok: true}
	r := NewResolver(dir)

	topic, ok, err := r.CurrentTopic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || topic != "photosynthesis" {
		t.Errorf("got (%q, %v), want (photosynthesis, true)", topic, ok)
	}
}

func TestResolver_NoTopic(t *testing.T) {
	r := NewResolver(&fakeDirectory{})

	topic, ok, err := r.CurrentTopic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || topic != "" {
		t.Errorf("expected no topic, got (%q, %v)", topic, ok)
	}
}

func TestResolver_PropagatesError(t *testing.T) {
	wantErr := errors.New("database gone")
	r := NewResolver(&fakeDirectory{err: wantErr})

	_, _, err := r.CurrentTopic(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestResolver_NeverCaches(t *testing.T) {
	dir := &fakeDirectory{prompt: "photosynthesis", ok: true}
	r := NewResolver(dir)

	for i := 0; i < 3; i++ {
		if _, _, err := r.CurrentTopic(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if dir.calls != 3 {
		t.Errorf("expected a directory lookup per call, got %d", dir.calls)
	}
}
