package api

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
)

type savedCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Secure bool   `json:"secure,omitempty"`
}

// storeJar is a cookie jar whose contents survive restarts. Cookies are saved
// per scheme and host under storage.KeyCookies and reloaded with path "/".
// Expiry is not kept; the server decides whether a restored cookie still counts.
type storeJar struct {
	jar   *cookiejar.Jar
	store storage.Store

	mu    sync.Mutex
	saved map[string][]savedCookie
}

func newStoreJar(store storage.Store) *storeJar {
	jar, _ := cookiejar.New(nil)
	j := &storeJar{jar: jar, store: store, saved: make(map[string][]savedCookie)}
	if !storage.GetJSON(store, storage.KeyCookies, &j.saved) || j.saved == nil {
		j.saved = make(map[string][]savedCookie)
	}

	for origin, cookies := range j.saved {
		u, err := url.Parse(origin + "/")
		if err != nil || u.Host == "" {
			continue
		}
		restored := make([]*http.Cookie, len(cookies))
		for i, c := range cookies {
			restored[i] = &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", Secure: c.Secure}
		}
		jar.SetCookies(u, restored)
	}
	return j
}

func (j *storeJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	origin := u.Scheme + "://" + u.Host
	current := j.jar.Cookies(u)

	j.mu.Lock()
	defer j.mu.Unlock()
	if len(current) == 0 {
		delete(j.saved, origin)
	} else {
		kept := make([]savedCookie, len(current))
		for i, c := range current {
			kept[i] = savedCookie{Name: c.Name, Value: c.Value, Secure: u.Scheme == "https"}
		}
		j.saved[origin] = kept
	}
	if err := storage.SetJSON(j.store, storage.KeyCookies, j.saved); err != nil {
		logging.Warn("Failed to persist cookies for %s: %v", origin, err)
	}
}

func (j *storeJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}
