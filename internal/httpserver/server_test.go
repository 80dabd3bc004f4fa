package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Cart  *service.CartService
	Ready error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	store := &repo.GormRepo{DB: db}
	reg := prometheus.NewRegistry()

	cartSvc := &service.CartService{
		Repo:      store,
		Pricing:   pricing.DefaultPolicy(),
		Publisher: events.Noop{},
		Metrics:   metrics.NewCartMetrics(reg),
	}
	t.Cleanup(cartSvc.Wait)

	env := &testEnv{T: t, DB: db, Cart: cartSvc}
	env.E = New(logging.NewWithWriter(io.Discard, "error"), &Deps{
		CartHandler:    &CartHTTP{Svc: cartSvc},
		CatalogHandler: &CatalogHTTP{Catalog: &catalog.GormRepo{DB: db}},
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:      store,
			JWTSecret: testSecret,
			AccessTTL: time.Hour,
		}},
		JWTSecret: testSecret,
		Ready:     func(context.Context) error { return env.Ready },
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return env
}

// accessCookie signs a token for a fresh user id.
func (env *testEnv) accessCookie() (*http.Cookie, uuid.UUID) {
	env.T.Helper()
	uid := uuid.New()
	tok, err := tokens.NewAccessToken(testSecret, uid.String(), "user", time.Now().Add(time.Hour))
	require.NoError(env.T, err)
	return &http.Cookie{Name: tokens.AccessCookieName, Value: tok}, uid
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(env.T, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var errNotReady = errors.New("db down")
