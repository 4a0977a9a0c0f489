package server_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freebies/internal/server"
	"freebies/internal/worker"

	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	res worker.Result
	at  time.Time
	ok  bool
}

func (f fakeStatus) Last() (worker.Result, time.Time, bool) {
	return f.res, f.at, f.ok
}

func TestHealthCheck(t *testing.T) {
	at := time.Date(2023, 5, 3, 15, 4, 5, 0, time.UTC)

	testCases := []struct {
		name     string
		status   fakeStatus
		wantCode int
		wantBody string
	}{
		{
			name:     "no check yet",
			status:   fakeStatus{},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "no check finished yet",
		},
		{
			name:     "last check ok",
			status:   fakeStatus{res: worker.Result{Status: worker.StatusOK}, at: at, ok: true},
			wantCode: http.StatusOK,
			wantBody: "OK",
		},
		{
			name: "last check failed",
			status: fakeStatus{
				res: worker.Result{Status: worker.StatusRecoverable, Err: errors.New("fetch failed")},
				at:  at,
				ok:  true,
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "last check recoverable at 2023-05-03T15:04:05Z: fetch failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := server.NewServer(tc.status)

			req := httptest.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			require.Equal(t, tc.wantCode, w.Code)
			require.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestMetrics(t *testing.T) {
	srv := server.NewServer(fakeStatus{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}
