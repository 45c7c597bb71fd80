package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
	"github.com/MalithGihan/tramnet-panel/internal/metrics"
)

func fakeBackend(t *testing.T) *backend.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"total_stops":12,"active_stops":10,"total_routes":4}}`))
	})
	mux.HandleFunc("/api/routes/shortest", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"No path found"}`))
	})
	mux.HandleFunc("/api/stops/RON", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":true,"data":{
			"info":{"id":"RON","name":"Rondo Mogilskie","active":true,"lat":50.06,"lng":19.95},
			"lines":["4","10"],
			"connections":[{"from_name":"Rondo Mogilskie","to_name":"Teatr Słowackiego","weight":3}],
			"traffic":[["Friday","17",85],["Tuesday",8,30]]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, time.Second, zap.NewNop(), metrics.NewCollector())
}

func TestRunStats(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), fakeBackend(t), []string{"stats"}, &out))
	assert.Contains(t, out.String(), "stops   12")
	assert.Contains(t, out.String(), "routes  4")
}

func TestRunStopDetailsOrdersWeek(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), fakeBackend(t), []string{"stop", "RON"}, &out))
	s := out.String()
	assert.Contains(t, s, "Rondo Mogilskie to Teatr Słowackiego")
	assert.Contains(t, s, "17:85%")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Tuesday")), bytes.Index(out.Bytes(), []byte("Friday")))
}

func TestRunReportsBackendMessage(t *testing.T) {
	err := run(context.Background(), fakeBackend(t), []string{"path", "A", "B"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "No path found", describe(err))
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"path", "A"}, {"stop"}, {"teleport"}} {
		err := run(context.Background(), fakeBackend(t), args, &bytes.Buffer{})
		assert.True(t, errors.Is(err, errUsage), "%v", args)
	}
}
