// Package stubserver is an in-memory implementation of the game backend. It
// speaks the same JSON contract as the real server so the terminal client can
// be developed and tested without one.
package stubserver

import (
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"wordsmith/internal/logging"
	"wordsmith/internal/types"
)

// Options configure an App. Zero values pick the defaults below.
type Options struct {
	// Words replaces the embedded dictionary.
	Words []string
	// AdvertisedPort is reported by /config; 0 means "same origin".
	AdvertisedPort int
	RateLimitRPS   int
	RateLimitBurst int
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	ShareTTL       time.Duration
	Production     bool
}

// App holds every game, share code and rate limiter of the stub.
type App struct {
	dict *dictionary

	advertisedPort int
	sessionTimeout time.Duration
	cookieMaxAge   time.Duration
	shareTTL       time.Duration
	isProduction   bool
	startTime      time.Time
	now            func() time.Time

	gameMutex sync.RWMutex
	games     map[string]*game
	shares    map[string]*shareEntry

	rateLimitRPS   int
	rateLimitBurst int
	limiterMutex   sync.Mutex
	limiterMap     map[string]*rate.Limiter
}

// New builds an App. It fails only when the dictionary cannot be loaded.
func New(opts Options) (*App, error) {
	dict, err := loadDictionary(opts.Words)
	if err != nil {
		return nil, err
	}
	app := &App{
		dict:           dict,
		advertisedPort: opts.AdvertisedPort,
		sessionTimeout: opts.SessionTimeout,
		cookieMaxAge:   opts.CookieMaxAge,
		shareTTL:       opts.ShareTTL,
		isProduction:   opts.Production,
		startTime:      time.Now(),
		now:            time.Now,
		games:          make(map[string]*game),
		shares:         make(map[string]*shareEntry),
		rateLimitRPS:   opts.RateLimitRPS,
		rateLimitBurst: opts.RateLimitBurst,
		limiterMap:     make(map[string]*rate.Limiter),
	}
	if app.sessionTimeout <= 0 {
		app.sessionTimeout = 2 * time.Hour
	}
	if app.cookieMaxAge <= 0 {
		app.cookieMaxAge = 2 * time.Hour
	}
	if app.shareTTL <= 0 {
		app.shareTTL = types.ShareCodeTTL
	}
	if app.rateLimitRPS <= 0 {
		app.rateLimitRPS = 20
	}
	if app.rateLimitBurst <= 0 {
		app.rateLimitBurst = 40
	}
	logging.Info("Loaded %d words (%d lengths)", dict.size(), len(dict.byLength))
	return app, nil
}

// Router wires the API under /api plus a health check at /healthz.
func (app *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), requestLogMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	router.GET("/healthz", app.healthzHandler)

	api := router.Group("/api")
	api.GET(RouteConfig, app.configHandler)
	api.GET(RouteSuggestions, app.suggestionsHandler)
	api.GET(RouteState, app.stateHandler)
	limited := api.Group("", app.rateLimitMiddleware())
	limited.POST(RouteStart, app.startHandler)
	limited.POST(RouteJoin, app.joinHandler)
	limited.POST(RouteGuess, app.guessHandler)
	limited.POST(RouteSolve, app.solveHandler)
	limited.POST(RouteShare, app.shareHandler)
	limited.POST(RouteReset, app.resetHandler)
	return router
}
