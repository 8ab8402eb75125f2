package nav

import (
	"sync"

	"github.com/samber/lo"

	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
)

// Navigator is the screen state machine. The stack holds previously shown
// screens only; the current screen is kept separately. Every transition
// writes both back to the store.
type Navigator struct {
	mu      sync.Mutex
	store   storage.Store
	current types.Screen
	stack   []types.Screen
}

// New restores the last persisted screen and stack. Missing or invalid
// values fall back to Start and an empty stack.
func New(store storage.Store) *Navigator {
	n := &Navigator{store: store, current: types.ScreenStart}

	if raw, ok := store.Get(storage.KeyCurrentScreen); ok {
		n.current = types.ParseScreen(raw)
	}

	var saved []string
	if storage.GetJSON(store, storage.KeyNavStack, &saved) {
		n.stack = lo.FilterMap(saved, func(v string, _ int) (types.Screen, bool) {
			s := types.Screen(v)
			return s, s.Valid()
		})
	}
	return n
}

// Current returns the visible screen.
func (n *Navigator) Current() types.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stack returns a copy of the back stack, oldest first.
func (n *Navigator) Stack() []types.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]types.Screen(nil), n.stack...)
}

// NavigateTo pushes the current screen (unless it is already target) and shows target.
func (n *Navigator) NavigateTo(target types.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !target.Valid() {
		logging.Warn("Ignoring navigation to unknown screen %q", target)
		return
	}
	if n.current != target {
		n.stack = append(n.stack, n.current)
	}
	n.current = target
	n.persist()
}

// Back pops the previous screen, or goes to Start when there is none.
func (n *Navigator) Back() types.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		n.current = types.ScreenStart
	} else {
		n.current = n.stack[len(n.stack)-1]
		n.stack = n.stack[:len(n.stack)-1]
	}
	n.persist()
	return n.current
}

// Reset returns to Start with an empty stack.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = types.ScreenStart
	n.stack = nil
	n.persist()
}

// ShowsBack reports whether screen offers a back affordance.
func ShowsBack(screen types.Screen) bool {
	switch screen {
	case types.ScreenLength, types.ScreenAttempts, types.ScreenPrefix, types.ScreenJoin:
		return true
	}
	return false
}

func (n *Navigator) persist() {
	stack := lo.Map(n.stack, func(s types.Screen, _ int) string { return string(s) })
	if err := storage.SetJSON(n.store, storage.KeyNavStack, stack); err != nil {
		logging.Warn("Failed to persist navigation stack: %v", err)
	}
	if err := n.store.Set(storage.KeyCurrentScreen, string(n.current)); err != nil {
		logging.Warn("Failed to persist current screen: %v", err)
	}
}
