package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wordsmith/internal/debounce"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

var errBackend = errors.New("backend down")

// fakeBackend records calls and delegates to optional hooks.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
	log   []string

	suggestions func(length int, prefix string) ([]string, error)
	start       func(length, attempts int, word string) (types.StartResponse, error)
	join        func(code string) (*types.GameState, error)
	state       func(sessionID string) (*types.GameState, error)
	guess       func(sessionID, guess string) error
	solve       func(sessionID, kind string) error
	share       func() (string, error)
	reset       func() error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name, detail string) {
	f.mu.Lock()
	f.calls[name]++
	f.log = append(f.log, name+" "+detail)
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeBackend) Suggestions(_ context.Context, length int, prefix string) ([]string, error) {
	f.record("suggestions", prefix)
	if f.suggestions != nil {
		return f.suggestions(length, prefix)
	}
	return nil, nil
}

func (f *fakeBackend) Start(_ context.Context, length, attempts int, word string) (types.StartResponse, error) {
	f.record("start", word)
	if f.start != nil {
		return f.start(length, attempts, word)
	}
	return types.StartResponse{SessionID: "s1"}, nil
}

func (f *fakeBackend) Join(_ context.Context, code string) (*types.GameState, error) {
	f.record("join", code)
	if f.join != nil {
		return f.join(code)
	}
	return nil, errBackend
}

func (f *fakeBackend) State(_ context.Context, sessionID string) (*types.GameState, error) {
	f.record("state", sessionID)
	if f.state != nil {
		return f.state(sessionID)
	}
	return activeGame(), nil
}

func (f *fakeBackend) Guess(_ context.Context, sessionID, guess string) error {
	f.record("guess", guess)
	if f.guess != nil {
		return f.guess(sessionID, guess)
	}
	return nil
}

func (f *fakeBackend) Solve(_ context.Context, sessionID, kind string) error {
	f.record("solve", kind)
	if f.solve != nil {
		return f.solve(sessionID, kind)
	}
	return nil
}

func (f *fakeBackend) Share(_ context.Context) (string, error) {
	f.record("share", "")
	if f.share != nil {
		return f.share()
	}
	return "ABCD", nil
}

func (f *fakeBackend) Reset(_ context.Context) error {
	f.record("reset", "")
	if f.reset != nil {
		return f.reset()
	}
	return nil
}

// recordingRenderer keeps every painted model.
type recordingRenderer struct {
	mu     sync.Mutex
	models []view.Model
}

func (r *recordingRenderer) Render(m view.Model) {
	r.mu.Lock()
	r.models = append(r.models, m)
	r.mu.Unlock()
}

func (r *recordingRenderer) last() view.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.models[len(r.models)-1]
}

type harness struct {
	session  *Session
	backend  *fakeBackend
	store    *storage.MemoryStore
	clock    *debounce.ManualClock
	renderer *recordingRenderer
}

func newHarness(t *testing.T, store *storage.MemoryStore, backend *fakeBackend) *harness {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if backend == nil {
		backend = newFakeBackend()
	}
	h := &harness{
		backend:  backend,
		store:    store,
		clock:    debounce.NewManualClock(),
		renderer: &recordingRenderer{},
	}
	h.session = New(Options{
		Store:        store,
		Backend:      backend,
		Renderer:     h.renderer,
		Clock:        h.clock,
		SuggestDelay: 200 * time.Millisecond,
		Affordances:  view.AllAffordances,
	})
	return h
}

// playing puts the harness into an active 5x6 game for session s1.
func (h *harness) playing(t *testing.T) {
	t.Helper()
	_ = h.store.Set(storage.KeySessionID, "s1")
	if err := h.session.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !h.session.State().Playing() {
		t.Fatal("expected an active game")
	}
}

func (h *harness) typeWord(t *testing.T, word string) {
	t.Helper()
	for _, r := range word {
		if err := h.session.HandleKey(context.Background(), KeyEvent{Key: string(r)}); err != nil {
			t.Fatalf("HandleKey(%q): %v", r, err)
		}
	}
}

func activeGame(guesses ...types.Guess) *types.GameState {
	if guesses == nil {
		guesses = []types.Guess{}
	}
	return &types.GameState{
		GameActive:  true,
		WordLength:  5,
		MaxAttempts: 6,
		Guesses:     guesses,
	}
}

func greyGuess(word string) types.Guess {
	fb := make([]types.Feedback, len(word))
	for i := range fb {
		fb[i] = types.FeedbackGrey
	}
	return types.Guess{Word: word, Feedback: fb}
}
