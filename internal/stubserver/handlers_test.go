package stubserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"wordsmith/internal/types"
)

func setupTestRouter(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app := testApp(t)
	return app, app.Router()
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func startGame(t *testing.T, router *gin.Engine, word string) (string, *http.Cookie) {
	t.Helper()
	w := postForm(router, "/api/start", url.Values{"length": {"5"}, "attempts": {"6"}, "word": {word}})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/start returned %d: %s", w.Code, w.Body.String())
	}
	res := decode[types.StartResponse](t, w)
	if res.SessionID == "" {
		t.Fatal("start returned no session id")
	}
	return res.SessionID, sessionCookie(t, w)
}

func TestConfigHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := New(Options{Words: testWords, AdvertisedPort: 9090})
	if err != nil {
		t.Fatal(err)
	}
	w := get(app.Router(), "/api/config")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/config returned %d", w.Code)
	}
	if cfg := decode[types.ConfigResponse](t, w); cfg.Port != 9090 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestSuggestionsHandler(t *testing.T) {
	_, router := setupTestRouter(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"length=5&prefix=cr", []string{"crane", "crate"}},
		{"length=5&prefix=CR", []string{"crane", "crate"}},
		{"length=3&prefix=c", []string{"cat", "cot"}},
		{"length=5&prefix=", []string{}},
		{"length=5&prefix=zz", []string{}},
		{"length=9&prefix=c", []string{}},
	}
	for _, tt := range tests {
		w := get(router, "/api/suggestions?"+tt.query)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d", tt.query, w.Code)
			continue
		}
		got := decode[[]string](t, w)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s: got %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestStartHandlerValidation(t *testing.T) {
	_, router := setupTestRouter(t)
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"bad length", url.Values{"length": {"x"}, "attempts": {"6"}, "word": {"crane"}}, ErrorBadLength},
		{"too long", url.Values{"length": {"20"}, "attempts": {"6"}, "word": {"crane"}}, ErrorBadLength},
		{"bad attempts", url.Values{"length": {"5"}, "attempts": {"0"}, "word": {"crane"}}, ErrorBadAttempts},
		{"length mismatch", url.Values{"length": {"5"}, "attempts": {"6"}, "word": {"cat"}}, "Word must be 5 letters."},
		{"unknown word", url.Values{"length": {"5"}, "attempts": {"6"}, "word": {"zzzzz"}}, ErrorNotInWordList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(router, "/api/start", tt.form)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", w.Code)
			}
			if got := decode[types.ErrorResponse](t, w).Error; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuessAndStateFlow(t *testing.T) {
	_, router := setupTestRouter(t)
	sessionID, _ := startGame(t, router, "crane")

	w := get(router, "/api/state?session_id="+sessionID)
	st := decode[types.GameState](t, w)
	if !st.GameActive || st.IsGameOver || st.WordLength != 5 || st.MaxAttempts != 6 || len(st.Guesses) != 0 {
		t.Fatalf("fresh state = %+v", st)
	}

	w = postForm(router, "/api/guess", url.Values{"session_id": {sessionID}, "guess": {"SLATE"}})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/guess returned %d: %s", w.Code, w.Body.String())
	}

	w = postForm(router, "/api/guess", url.Values{"session_id": {sessionID}, "guess": {"slate"}})
	if w.Code != http.StatusBadRequest || decode[types.ErrorResponse](t, w).Error != ErrorDuplicateGuess {
		t.Errorf("duplicate guess = %d %s", w.Code, w.Body.String())
	}

	w = postForm(router, "/api/guess", url.Values{"session_id": {sessionID}, "guess": {"crane"}})
	st = decode[types.GameState](t, w)
	if !st.IsGameOver || !st.IsWon || len(st.Guesses) != 2 || st.SecretWord == nil || *st.SecretWord != "crane" {
		t.Errorf("winning state = %+v", st)
	}

	w = postForm(router, "/api/guess", url.Values{"session_id": {sessionID}, "guess": {"crate"}})
	if w.Code != http.StatusConflict {
		t.Errorf("guess after game over returned %d, want 409", w.Code)
	}
}

func TestStateHandlerUnknownSession(t *testing.T) {
	_, router := setupTestRouter(t)
	w := get(router, "/api/state?session_id=missing-session")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
	if got := decode[types.ErrorResponse](t, w).Error; got != ErrorSessionNotFound {
		t.Errorf("error = %q", got)
	}
}

func TestSolveHandler(t *testing.T) {
	_, router := setupTestRouter(t)
	sessionID, _ := startGame(t, router, "moist")

	w := postForm(router, "/api/solve", url.Values{"session_id": {sessionID}, "type": {"efficient"}})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/solve returned %d: %s", w.Code, w.Body.String())
	}
	st := decode[types.GameState](t, w)
	if !st.IsGameOver {
		t.Errorf("solver left the game running: %+v", st)
	}

	w = postForm(router, "/api/solve", url.Values{"session_id": {sessionID}, "type": {"fast"}})
	if w.Code != http.StatusConflict {
		t.Errorf("second solve returned %d, want 409", w.Code)
	}
}

func TestShareJoinAndReset(t *testing.T) {
	_, router := setupTestRouter(t)

	w := postForm(router, "/api/share", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("share without a game returned %d", w.Code)
	}

	sessionID, cookie := startGame(t, router, "crane")
	w = postForm(router, "/api/share", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/share returned %d: %s", w.Code, w.Body.String())
	}
	code := decode[types.ShareResponse](t, w).Code
	if len(code) != 4 || strings.ToUpper(code) != code {
		t.Fatalf("code = %q", code)
	}

	again := decode[types.ShareResponse](t, postForm(router, "/api/share", nil, cookie)).Code
	if again != code {
		t.Errorf("second share = %q, want %q", again, code)
	}

	req, _ := http.NewRequest(http.MethodPost, "/api/join", strings.NewReader(`{"code":"`+strings.ToLower(code)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/join returned %d: %s", w.Code, w.Body.String())
	}
	st := decode[types.GameState](t, w)
	if st.SessionID != sessionID || st.ShareCode == nil || *st.ShareCode != code {
		t.Errorf("joined state = %+v", st)
	}
	if sessionCookie(t, w).Value != sessionID {
		t.Error("join did not point the cookie at the shared game")
	}

	w = postForm(router, "/api/reset", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/reset returned %d", w.Code)
	}
	if c := sessionCookie(t, w); c.MaxAge >= 0 {
		t.Errorf("reset cookie MaxAge = %d, want expired", c.MaxAge)
	}
	if w := get(router, "/api/state?session_id="+sessionID); w.Code != http.StatusNotFound {
		t.Errorf("state after reset returned %d", w.Code)
	}

	req, _ = http.NewRequest(http.MethodPost, "/api/join", strings.NewReader(`{"code":"`+code+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("join after reset returned %d, want 404", w.Code)
	}
}

func TestAPIHeaders(t *testing.T) {
	_, router := setupTestRouter(t)
	req, _ := http.NewRequest(http.MethodGet, "/api/suggestions?length=5&prefix=c", nil)
	req.Header.Set("X-Request-Id", "req-123")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Errorf("X-Request-Id = %q", got)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q", cc)
	}
	if ce := w.Header().Get("Content-Encoding"); ce != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", ce)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := New(Options{Words: testWords, RateLimitRPS: 1, RateLimitBurst: 2})
	if err != nil {
		t.Fatal(err)
	}
	router := app.Router()
	var codes []int
	for i := 0; i < 4; i++ {
		codes = append(codes, postForm(router, "/api/reset", nil).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[3] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v", codes)
	}
}

func TestHealthzHandler(t *testing.T) {
	_, router := setupTestRouter(t)
	w := get(router, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned %d", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["status"] != "ok" || body["words_loaded"].(float64) != float64(len(testWords)) {
		t.Errorf("healthz = %v", body)
	}
}
