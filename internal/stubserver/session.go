package stubserver

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wordsmith/internal/logging"
)

const shareAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type shareEntry struct {
	gameID  string
	expires time.Time
}

// setSessionCookie points the caller's cookie at a game.
func (app *App) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.cookieMaxAge.Seconds()), "/", "", app.isProduction, true)
}

func (app *App) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", app.isProduction, true)
}

// cookieSession returns the game id carried by the session cookie, if any.
func cookieSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		return ""
	}
	return sessionID
}

// createGame stores a fresh game and returns it.
func (app *App) createGame(ctx context.Context, secret string, attempts int) *game {
	g := newGame(uuid.NewString(), secret, attempts, app.now())
	app.gameMutex.Lock()
	app.games[g.id] = g
	app.gameMutex.Unlock()
	logging.Info("[request_id=%s] New game %s: %d letters, %d attempts", requestID(ctx), g.id, g.wordLength, attempts)
	return g
}

// getGameLocked returns the game for sessionID and marks it used. Callers must hold
// gameMutex for writing.
func (app *App) getGameLocked(sessionID string) (*game, bool) {
	g, ok := app.games[sessionID]
	if !ok {
		return nil, false
	}
	g.lastAccessTime = app.now()
	return g, true
}

// issueShareCodeLocked returns g's code, minting one if needed. Callers must hold
// gameMutex for writing.
func (app *App) issueShareCodeLocked(g *game) (string, error) {
	if g.shareCode != "" {
		if entry, ok := app.shares[g.shareCode]; ok && app.now().Before(entry.expires) {
			return g.shareCode, nil
		}
		delete(app.shares, g.shareCode)
	}
	for {
		code, err := randomCode(shareCodeLength)
		if err != nil {
			return "", err
		}
		if _, taken := app.shares[code]; taken {
			continue
		}
		app.shares[code] = &shareEntry{gameID: g.id, expires: app.now().Add(app.shareTTL)}
		g.shareCode = code
		return code, nil
	}
}

// lookupShareLocked resolves a code to its game, dropping expired codes.
func (app *App) lookupShareLocked(code string) (*game, bool) {
	entry, ok := app.shares[code]
	if !ok {
		return nil, false
	}
	if !app.now().Before(entry.expires) {
		delete(app.shares, code)
		return nil, false
	}
	return app.getGameLocked(entry.gameID)
}

// deleteGameLocked removes a game and its share code.
func (app *App) deleteGameLocked(id string) {
	g, ok := app.games[id]
	if !ok {
		return
	}
	if g.shareCode != "" {
		delete(app.shares, g.shareCode)
	}
	delete(app.games, id)
}

// Prune drops games idle longer than the session timeout and expired share
// codes. It returns how many of each were removed.
func (app *App) Prune() (games, codes int) {
	now := app.now()
	cutoff := now.Add(-app.sessionTimeout)

	app.gameMutex.Lock()
	defer app.gameMutex.Unlock()
	for code, entry := range app.shares {
		if !now.Before(entry.expires) {
			delete(app.shares, code)
			if g, ok := app.games[entry.gameID]; ok && g.shareCode == code {
				g.shareCode = ""
			}
			codes++
		}
	}
	for id, g := range app.games {
		if g.lastAccessTime.Before(cutoff) {
			app.deleteGameLocked(id)
			games++
		}
	}
	return games, codes
}

// RunJanitor prunes every interval until ctx is done.
func (app *App) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			games, codes := app.Prune()
			if games > 0 || codes > 0 {
				logging.Info("Session cleanup completed: removed %d games, %d share codes", games, codes)
			}
		}
	}
}

func randomCode(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(shareAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = shareAlphabet[idx.Int64()]
	}
	return string(out), nil
}
