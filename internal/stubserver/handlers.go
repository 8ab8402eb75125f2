package stubserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wordsmith/internal/logging"
	"wordsmith/internal/types"
)

type joinRequest struct {
	Code string `json:"code"`
}

func abortWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, types.ErrorResponse{Error: msg})
}

// configHandler tells the client where the API lives.
func (app *App) configHandler(c *gin.Context) {
	c.JSON(http.StatusOK, types.ConfigResponse{Port: app.advertisedPort})
}

// suggestionsHandler lists dictionary words of a length starting with a prefix.
func (app *App) suggestionsHandler(c *gin.Context) {
	length, err := strconv.Atoi(c.DefaultQuery("length", strconv.Itoa(types.DefaultWordLength)))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorBadLength)
		return
	}
	prefix := c.Query("prefix")
	if strings.TrimSpace(prefix) == "" {
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, app.dict.suggest(length, prefix, MaxSuggestions))
}

// startHandler creates a game whose secret is the chosen word and points the
// session cookie at it.
func (app *App) startHandler(c *gin.Context) {
	ctx := c.Request.Context()
	length, err := strconv.Atoi(c.PostForm("length"))
	if err != nil || length < MinWordLength || length > MaxWordLength {
		abortWithError(c, http.StatusBadRequest, ErrorBadLength)
		return
	}
	attempts, err := strconv.Atoi(c.PostForm("attempts"))
	if err != nil || attempts < MinAttempts || attempts > MaxAttempts {
		abortWithError(c, http.StatusBadRequest, ErrorBadAttempts)
		return
	}
	word := normalizeGuess(c.PostForm("word"))
	if len(word) != length {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf(ErrorInvalidLength, length))
		return
	}
	if !app.dict.contains(word) {
		abortWithError(c, http.StatusBadRequest, ErrorNotInWordList)
		return
	}

	g := app.createGame(ctx, word, attempts)
	app.setSessionCookie(c, g.id)
	c.JSON(http.StatusOK, types.StartResponse{SessionID: g.id})
}

// joinHandler attaches the caller to a shared game.
func (app *App) joinHandler(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorMissingCode)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		abortWithError(c, http.StatusBadRequest, ErrorMissingCode)
		return
	}

	app.gameMutex.Lock()
	g, ok := app.lookupShareLocked(code)
	if !ok {
		app.gameMutex.Unlock()
		logging.Warn("[request_id=%s] Join with unknown code %s", requestID(c.Request.Context()), code)
		abortWithError(c, http.StatusNotFound, ErrorShareNotFound)
		return
	}
	st := app.state(g)
	app.gameMutex.Unlock()

	app.setSessionCookie(c, g.id)
	logging.Info("[request_id=%s] Joined game %s with code %s", requestID(c.Request.Context()), g.id, code)
	c.JSON(http.StatusOK, st)
}

// stateHandler returns the authoritative state of a session.
func (app *App) stateHandler(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = cookieSession(c)
	}

	app.gameMutex.Lock()
	g, ok := app.getGameLocked(sessionID)
	if !ok {
		app.gameMutex.Unlock()
		abortWithError(c, http.StatusNotFound, ErrorSessionNotFound)
		return
	}
	st := app.state(g)
	app.gameMutex.Unlock()
	c.JSON(http.StatusOK, st)
}

// guessHandler scores one guess.
func (app *App) guessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.PostForm("session_id")
	guess := normalizeGuess(c.PostForm("guess"))

	app.gameMutex.Lock()
	defer app.gameMutex.Unlock()
	g, ok := app.getGameLocked(sessionID)
	if !ok {
		abortWithError(c, http.StatusNotFound, ErrorSessionNotFound)
		return
	}
	logging.Info("[request_id=%s] Session %s guessed: %s (attempt %d/%d)", requestID(ctx), sessionID, guess, len(g.guesses)+1, g.maxAttempts)
	if err := app.validateGuess(g, guess); err != nil {
		logging.Warn("[request_id=%s] Rejected guess %q: %v", requestID(ctx), guess, err)
		abortWithError(c, guessStatus(err), err.Error())
		return
	}
	app.applyGuess(ctx, g, guess)
	c.JSON(http.StatusOK, app.state(g))
}

// solveHandler lets the server finish the game.
func (app *App) solveHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.PostForm("session_id")
	kind := c.PostForm("type")
	if kind != types.SolverEfficient {
		kind = types.SolverFast
	}

	app.gameMutex.Lock()
	defer app.gameMutex.Unlock()
	g, ok := app.getGameLocked(sessionID)
	if !ok {
		abortWithError(c, http.StatusNotFound, ErrorSessionNotFound)
		return
	}
	if g.over {
		abortWithError(c, http.StatusConflict, ErrorGameOver)
		return
	}
	start := time.Now()
	app.solve(ctx, g, kind)
	logging.Info("[request_id=%s] %s solver finished game %s in %v", requestID(ctx), kind, g.id, time.Since(start).Round(time.Millisecond))
	c.JSON(http.StatusOK, app.state(g))
}

// shareHandler issues a share code for the cookie's game.
func (app *App) shareHandler(c *gin.Context) {
	app.gameMutex.Lock()
	defer app.gameMutex.Unlock()
	g, ok := app.getGameLocked(cookieSession(c))
	if !ok {
		abortWithError(c, http.StatusBadRequest, ErrorNoActiveGame)
		return
	}
	code, err := app.issueShareCodeLocked(g)
	if err != nil {
		logging.Error("Failed to mint share code: %v", err)
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	logging.Info("[request_id=%s] Game %s shared as %s", requestID(c.Request.Context()), g.id, code)
	c.JSON(http.StatusOK, types.ShareResponse{Code: code})
}

// resetHandler discards the cookie's game and clears the cookie.
func (app *App) resetHandler(c *gin.Context) {
	if sessionID := cookieSession(c); sessionID != "" {
		app.gameMutex.Lock()
		app.deleteGameLocked(sessionID)
		app.gameMutex.Unlock()
		logging.Info("[request_id=%s] Cleared game %s", requestID(c.Request.Context()), sessionID)
	}
	app.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	app.gameMutex.RLock()
	games, codes := len(app.games), len(app.shares)
	app.gameMutex.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          map[bool]string{true: "production", false: "development"}[app.isProduction],
		"words_loaded": app.dict.size(),
		"games":        games,
		"share_codes":  codes,
		"uptime":       formatUptime(time.Since(app.startTime)),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

func guessStatus(err error) int {
	if errors.Is(err, errGameOver) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
