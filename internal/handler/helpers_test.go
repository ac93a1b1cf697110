// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instaview-go/internal/auth"
	"github.com/olegiv/instaview-go/internal/cache"
	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/fetcher"
	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/logging"
	"github.com/olegiv/instaview-go/internal/middleware"
	"github.com/olegiv/instaview-go/internal/render"
	"github.com/olegiv/instaview-go/internal/seo"
	"github.com/olegiv/instaview-go/internal/service"
	"github.com/olegiv/instaview-go/internal/session"
	"github.com/olegiv/instaview-go/internal/version"
	"github.com/olegiv/instaview-go/web"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct horse battery staple"
	testSiteURL       = "https://instaview.example"
)

// adminHash is computed once; argon2 is deliberately slow.
var adminHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword(testAdminPassword)
	if err != nil {
		panic(err)
	}
	return hash
})

// stubFetcher records calls and returns a canned response or error.
type stubFetcher struct {
	mu    sync.Mutex
	calls int
	data  json.RawMessage
	err   error
}

func (f *stubFetcher) Fetch(_ context.Context, endpoint fetcher.Endpoint, username string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := fetcher.Validate(endpoint, username); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// testApp is a fully wired router on a memory store.
type testApp struct {
	t       *testing.T
	store   *kvstore.Store
	repos   *content.Repositories
	sm      *scs.SessionManager
	events  *logging.EventLog
	fetcher *stubFetcher
	router  http.Handler
	cookie  *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := kvstore.New(kvstore.NewMemoryBackend())
	t.Cleanup(func() { _ = store.Close() })
	repos := content.NewRepositories(store)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(templatesFS)
	require.NoError(t, err)

	creds, err := auth.NewCredentials(testAdminUser, adminHash())
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = memCache.Close() })

	protection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
	})
	t.Cleanup(protection.Close)

	sm := session.New(nil, true)
	events := logging.NewEventLog(10)
	stub := &stubFetcher{data: json.RawMessage(`{"stories":[]}`)}

	site := service.NewSiteService(repos.Pages, repos.Posts, repos.Ads, repos.Seo, service.SiteOptions{
		SiteURL:   testSiteURL,
		Languages: repos.Languages,
		Contact:   repos.Contact,
	})

	app := &testApp{
		t:       t,
		store:   store,
		repos:   repos,
		sm:      sm,
		events:  events,
		fetcher: stub,
	}
	app.router = NewRouter(RouterConfig{
		Public:   NewPublicHandler(site, renderer, stub, seo.RobotsConfig{SiteURL: testSiteURL}),
		Admin:    NewAdminHandler(repos, sm, creds, protection, events, testSiteURL),
		Health:   NewHealthHandler(store, memCache, sm, version.Info{Version: "v1.0.0"}),
		Sessions: sm,
		StaticFS: mustSub(t, web.Static, "static"),
		Security: middleware.DefaultSecurityHeadersConfig(true),
		CSRF:     middleware.DefaultCSRFConfig([]byte("0123456789abcdef0123456789abcdef"), true),
		Login:    protection,
	})
	return app
}

func mustSub(t *testing.T, fsys fs.FS, dir string) fs.FS {
	t.Helper()
	sub, err := fs.Sub(fsys, dir)
	require.NoError(t, err)
	return sub
}

// do sends a request through the router, carrying the session cookie.
func (a *testApp) do(method, target string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.doWithHeaders(method, target, body, nil)
}

// doWithHeaders is do with extra request headers.
func (a *testApp) doWithHeaders(method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(a.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == a.sm.Cookie.Name {
			a.cookie = c
		}
	}
	return rec
}

// login authenticates the app's session as admin.
func (a *testApp) login() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/admin/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
}

// decodeData unwraps the data field of a JSON response into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

// decodeError returns the error envelope of a JSON response.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.APIError {
	t.Helper()
	var apiErr middleware.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}
