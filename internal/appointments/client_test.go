package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonportal/internal/model"
)

func newBackend(t *testing.T, calls *int32, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/stylists/st-1/appointments", r.URL.Path)
		assert.Equal(t, "2026-01-11", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-01-17", r.URL.Query().Get("to"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"appointments": []model.AppointmentBlock{
				{ID: "a1", Date: "2026-01-12", StartTime: "9:00", Duration: 60, Status: model.StatusConfirmed},
			},
		})
	}))
}

var (
	weekFrom = time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	weekTo   = time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
)

func TestAPISource_Fetch(t *testing.T) {
	var calls int32
	srv := newBackend(t, &calls, http.StatusOK)
	defer srv.Close()

	src := NewAPISource(srv.URL+"/", "secret")
	res, err := src.FetchAppointments(context.Background(), "st-1", weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, OriginAPI, res.Origin)
	assert.False(t, res.Stale)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, "09:00", res.Appointments[0].StartTime)
}

func TestAPISource_UpstreamError(t *testing.T) {
	var calls int32
	srv := newBackend(t, &calls, http.StatusBadGateway)
	defer srv.Close()

	src := NewAPISource(srv.URL, "secret")
	_, err := src.FetchAppointments(context.Background(), "st-1", weekFrom, weekTo)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAPISource_RedisCache(t *testing.T) {
	var calls int32
	srv := newBackend(t, &calls, http.StatusOK)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	src := NewAPISource(srv.URL, "secret")
	src.UseRedisCache(rdb, time.Minute)

	first, err := src.FetchAppointments(ctx, "st-1", weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, OriginAPI, first.Origin)

	second, err := src.FetchAppointments(ctx, "st-1", weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, OriginCache, second.Origin)
	assert.Equal(t, first.Appointments, second.Appointments)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.NoError(t, src.Invalidate(ctx, "st-1"))
	third, err := src.FetchAppointments(ctx, "st-1", weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, OriginAPI, third.Origin)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAPISource_InvalidateWithoutCache(t *testing.T) {
	src := NewAPISource("http://localhost", "")
	assert.NoError(t, src.Invalidate(context.Background(), "st-1"))
}

func TestAPISource_HealthCheck(t *testing.T) {
	status := int32(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, "secret")
	require.NoError(t, src.HealthCheck(context.Background()))

	atomic.StoreInt32(&status, http.StatusServiceUnavailable)
	err := src.HealthCheck(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "503")

	srv.Close()
	assert.ErrorIs(t, src.HealthCheck(context.Background()), ErrUpstream)
}
