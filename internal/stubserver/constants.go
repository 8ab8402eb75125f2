package stubserver

// Routes, relative to /api.
const (
	RouteConfig      = "/config"
	RouteSuggestions = "/suggestions"
	RouteStart       = "/start"
	RouteJoin        = "/join"
	RouteState       = "/state"
	RouteGuess       = "/guess"
	RouteSolve       = "/solve"
	RouteShare       = "/share"
	RouteReset       = "/reset"
)

// SessionCookieName carries the caller's current game session.
const SessionCookieName = "session_id"

// Game limits accepted by /start.
const (
	MinWordLength = 3
	MaxWordLength = 12
	MinAttempts   = 1
	MaxAttempts   = 12
)

// MaxSuggestions caps a /suggestions response.
const MaxSuggestions = 20

const shareCodeLength = 4

// Error message constants
const (
	ErrorGameOver        = "Game is over."
	ErrorInvalidLength   = "Word must be %d letters."
	ErrorNotInWordList   = "Word not recognised."
	ErrorDuplicateGuess  = "Word already guessed."
	ErrorSessionNotFound = "Session not found."
	ErrorNoActiveGame    = "No active game to share."
	ErrorShareNotFound   = "Share code not found or expired."
	ErrorBadLength       = "Word length must be between 3 and 12."
	ErrorBadAttempts     = "Attempts must be between 1 and 12."
	ErrorMissingCode     = "Missing share code."
	ErrorTooManyRequests = "Too many requests. Please slow down."
)

type contextKey string

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
