package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awardhandler "kudos/internal/award/handler"
	balancehandler "kudos/internal/balance/handler"
	"kudos/internal/platform/logger"
)

func newTestRouter(health ...HealthChecker) http.Handler {
	log := logger.Discard()
	return NewRouter(Deps{
		Award:   awardhandler.New(nil, nil, log),
		Balance: balancehandler.New(nil, log),
		Logger:  log,
		Health:  health,
	})
}

func TestHealthz_AllCheckersPassing(t *testing.T) {
	checked := 0
	router := newTestRouter(
		HealthFunc(func(context.Context) error { checked++; return nil }),
		HealthFunc(func(context.Context) error { checked++; return nil }),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, 2, checked)
}

func TestHealthz_FailingCheckerReturns503(t *testing.T) {
	router := newTestRouter(
		HealthFunc(func(context.Context) error { return nil }),
		HealthFunc(func(context.Context) error { return errors.New("connection refused") }),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz_NoCheckersIsHealthy(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
