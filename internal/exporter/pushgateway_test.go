package exporter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsemon/pulsemon/internal/model"
)

func TestPushgatewayExport(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	batch := fixtureBatch()
	exp := NewPushgatewayExporter(srv.URL, "pulsemon", "host1")
	require.NoError(t, exp.Export(context.Background(), batch))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/pulsemon/instance/host1", gotPath)
	assert.Equal(t, Encode(batch, "host1"), gotBody)
}

func TestPushgatewayExportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "text format parsing error", http.StatusBadRequest)
	}))
	defer srv.Close()

	exp := NewPushgatewayExporter(srv.URL, "pulsemon", "host1")
	err := exp.Export(context.Background(), fixtureBatch())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestPushgatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	exp := NewPushgatewayExporter(srv.URL, "pulsemon", "host1")
	assert.Error(t, exp.Export(context.Background(), fixtureBatch()))
}

func TestPushgatewayTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	exp := NewPushgatewayExporter(srv.URL+"/", "job", "host")
	require.NoError(t, exp.Export(context.Background(), model.ExportBatch{}))
	assert.Equal(t, "/metrics/job/job/instance/host", gotPath)
}
