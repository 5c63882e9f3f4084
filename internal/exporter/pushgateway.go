package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pulsemon/pulsemon/internal/model"
)

// PushgatewayExporter pushes each batch to a Prometheus Pushgateway with PUT,
// replacing the previous payload for this job/instance group.
type PushgatewayExporter struct {
	baseURL  string
	job      string
	instance string
	client   *http.Client
}

// NewPushgatewayExporter creates an exporter for the given gateway base URL.
func NewPushgatewayExporter(baseURL, job, instance string) *PushgatewayExporter {
	return &PushgatewayExporter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		job:      job,
		instance: instance,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Export serializes the batch and pushes it as one HTTP transfer.
func (e *PushgatewayExporter) Export(ctx context.Context, batch model.ExportBatch) error {
	body := Encode(batch, e.instance)
	// The full payload goes to the log; size is managed by external rotation.
	log.Printf("[export] pushing %d samples to %s\n%s", len(batch.Samples), e.baseURL, body)

	pushURL := fmt.Sprintf("%s/metrics/job/%s/instance/%s",
		e.baseURL, url.PathEscape(e.job), url.PathEscape(e.instance))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; version=0.0.4")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("push to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
