package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordsmith/internal/debounce"
	"wordsmith/internal/logging"
	"wordsmith/internal/nav"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

// Backend is the part of the HTTP contract the session needs. *api.Client
// satisfies it.
type Backend interface {
	Suggestions(ctx context.Context, length int, prefix string) ([]string, error)
	Start(ctx context.Context, length, attempts int, word string) (types.StartResponse, error)
	Join(ctx context.Context, code string) (*types.GameState, error)
	State(ctx context.Context, sessionID string) (*types.GameState, error)
	Guess(ctx context.Context, sessionID, guess string) error
	Solve(ctx context.Context, sessionID, kind string) error
	Share(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
}

// Options wires a Session. Store and Backend are required.
type Options struct {
	Store        storage.Store
	Backend      Backend
	Renderer     view.Renderer
	Clock        debounce.Clock
	SuggestDelay time.Duration
	Affordances  view.Affordances
}

// Session owns all client-side state for one player: the current screen,
// the guess buffer, in-flight guards, suggestions and the last authoritative
// GameState. All fields are guarded by mu; network calls run with mu released.
type Session struct {
	store       storage.Store
	backend     Backend
	renderer    view.Renderer
	nav         *nav.Navigator
	suggest     *debounce.Debouncer
	affordances view.Affordances

	mu sync.Mutex

	length   int
	attempts int

	state     *types.GameState
	confirmed int           // len(state.Guesses) at the last apply
	fallback  []types.Guess // display-only cache while the server reports none

	buffer string

	errorText    string
	pendingError string // set while no state exists; consumed by the next apply

	submitInFlight bool
	solverInFlight bool
	solverStatus   string

	suggestions []string
	selected    int
	suggestSeq  uint64

	version uint64
}

// New builds a session and restores the persisted screen. It does no I/O
// beyond reading the store; call Restore to reconcile with the server.
func New(opts Options) *Session {
	delay := opts.SuggestDelay
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = view.RendererFunc(func(view.Model) {})
	}
	return &Session{
		store:       opts.Store,
		backend:     opts.Backend,
		renderer:    renderer,
		nav:         nav.New(opts.Store),
		suggest:     debounce.New(opts.Clock, delay),
		affordances: opts.Affordances,
		length:      types.DefaultWordLength,
		attempts:    types.DefaultAttempts,
		selected:    -1,
	}
}

// Restore reconciles a cold start. A persisted game screen with a share code
// rejoins the shared game; otherwise an existing session is refreshed. With
// no session the state is simply inactive and nothing is sent.
func (s *Session) Restore(ctx context.Context) error {
	code, _ := s.store.Get(storage.KeyShareCode)
	if s.nav.Current() != types.ScreenGame || code == "" {
		logging.Info("Restoring screen %s", s.nav.Current())
		return s.Refresh(ctx)
	}

	logging.Info("Rejoining shared game %s after reload", code)
	state, err := s.backend.Join(ctx, code)
	if err != nil {
		logging.Warn("Rejoin with code %s failed: %v", code, err)
		s.nav.Reset()
		s.render()
		return fmt.Errorf("rejoin: %w", err)
	}

	s.mu.Lock()
	s.rememberSessionLocked(state.SessionID)
	s.applyLocked(state)
	s.unlockAndRender()

	if err := s.Refresh(ctx); err != nil {
		logging.Warn("Refresh after rejoin failed, keeping join state: %v", err)
	}

	var cached []types.Guess
	if !storage.GetJSON(s.store, storage.KeyGuesses, &cached) || len(cached) == 0 {
		return nil
	}
	s.mu.Lock()
	if s.state != nil && len(s.state.Guesses) == 0 {
		logging.Info("Server has no guesses yet, showing %d cached guesses", len(cached))
		s.fallback = cached
	}
	s.unlockAndRender()
	return nil
}

// Refresh replaces the projected state with a fresh /state response. On
// failure the last good state is kept and an error line is shown.
func (s *Session) Refresh(ctx context.Context) error {
	sessionID, ok := s.sessionID()
	if !ok {
		s.mu.Lock()
		s.applyLocked(&types.GameState{GameActive: false})
		s.unlockAndRender()
		return nil
	}

	state, err := s.backend.State(ctx, sessionID)
	if err != nil {
		logging.Warn("State refresh for session %s failed: %v", sessionID, err)
		s.SetManualError(MsgBackendUnreachable)
		return fmt.Errorf("refresh state: %w", err)
	}

	s.mu.Lock()
	previous := s.confirmed
	s.applyLocked(state)
	if len(state.Guesses) > previous {
		s.buffer = ""
	}
	s.unlockAndRender()

	if len(state.Guesses) > 0 {
		if err := storage.SetJSON(s.store, storage.KeyGuesses, state.Guesses); err != nil {
			logging.Warn("Failed to cache guesses: %v", err)
		}
	}
	return nil
}

// SetManualError shows msg in place of any server error until the next state arrives.
func (s *Session) SetManualError(msg string) {
	s.mu.Lock()
	s.setErrorLocked(msg)
	s.unlockAndRender()
}

// DismissError hides a manual error line. An error carried by the state
// itself stays visible until the server drops it.
func (s *Session) DismissError() {
	s.mu.Lock()
	s.errorText = ""
	s.pendingError = ""
	s.unlockAndRender()
}

// NavigateBack returns to the previous screen.
func (s *Session) NavigateBack() {
	screen := s.nav.Back()
	logging.Info("Navigated back to %s", screen)
	s.render()
}

// View projects the current state without rendering it.
func (s *Session) View() view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectLocked()
}

// Screen returns the visible screen.
func (s *Session) Screen() types.Screen {
	return s.nav.Current()
}

// State returns the last authoritative state. It is replaced, never
// mutated, so callers may read it freely.
func (s *Session) State() *types.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Buffer returns the letters typed for the active row.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Selection returns the chosen word length and attempt budget.
func (s *Session) Selection() (length, attempts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length, s.attempts
}

func (s *Session) sessionID() (string, bool) {
	id, ok := s.store.Get(storage.KeySessionID)
	return id, ok && id != ""
}

func (s *Session) rememberSessionLocked(id string) {
	if id == "" {
		return
	}
	if err := s.store.Set(storage.KeySessionID, id); err != nil {
		logging.Warn("Failed to persist session id: %v", err)
	}
}

func (s *Session) storeLocked(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		logging.Warn("Failed to persist %s: %v", key, err)
	}
}

func (s *Session) forgetLocked(key string) {
	if err := s.store.Remove(key); err != nil {
		logging.Warn("Failed to remove %s: %v", key, err)
	}
}

// applyLocked installs a new authoritative state. A pending manual error wins
// over the state's own error field once, then is cleared.
func (s *Session) applyLocked(state *types.GameState) {
	s.state = state
	s.confirmed = len(state.Guesses)
	s.fallback = nil
	s.errorText = s.pendingError
	if s.errorText == "" && state.Error != nil {
		s.errorText = *state.Error
	}
	s.pendingError = ""
	if !state.GameActive {
		s.buffer = ""
	}
}

func (s *Session) setErrorLocked(msg string) {
	s.errorText = msg
	if s.state == nil {
		s.pendingError = msg
	}
}

func (s *Session) projectLocked() view.Model {
	screen := s.nav.Current()
	in := view.Input{
		Screen:       screen,
		State:        s.state,
		Fallback:     s.fallback,
		Buffer:       s.buffer,
		Error:        s.errorText,
		SolverStatus: s.solverStatus,
		Suggestions:  s.suggestions,
		Selected:     s.selected,
		Affordances:  s.affordances,
	}
	if code, ok := s.store.Get(storage.KeyShareCode); ok {
		in.ShareCode = code
	}
	if screen == types.ScreenPrefix {
		in.Preview = &view.Preview{WordLength: s.length, MaxAttempts: s.attempts}
	}
	s.version++
	m := view.Project(in)
	m.Version = s.version
	return m
}

// unlockAndRender projects under the lock, releases it, then paints. The
// renderer never runs with mu held.
func (s *Session) unlockAndRender() {
	m := s.projectLocked()
	s.mu.Unlock()
	s.renderer.Render(m)
}

func (s *Session) render() {
	s.mu.Lock()
	s.unlockAndRender()
}
