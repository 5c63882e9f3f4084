// Package exporter serializes a tick's sample batch into the gateway's text
// exposition format and pushes it. Output is deterministic: samples are
// emitted in collection order with fixed value formatting, so the payload for
// a given batch is byte-for-byte reproducible.
package exporter

import (
	"bytes"
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/pulsemon/pulsemon/internal/model"
)

// Exporter pushes one batch per tick. A failed push is reported to the
// caller; the next tick retries with fresh data, never the stale batch.
type Exporter interface {
	Export(ctx context.Context, batch model.ExportBatch) error
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Encode renders the batch as exposition text. Every sample line carries the
// instance label last. A "# TYPE <name> gauge" header is emitted when the
// metric name changes, so consecutive samples of the same metric (one block
// per service) share a single header.
func Encode(batch model.ExportBatch, instance string) []byte {
	var buf bytes.Buffer
	prevName := ""
	for _, s := range batch.Samples {
		if s.Name != prevName {
			buf.WriteString("# TYPE ")
			buf.WriteString(s.Name)
			buf.WriteString(" gauge\n")
			prevName = s.Name
		}
		buf.WriteString(s.Name)
		buf.WriteByte('{')
		for _, l := range s.Labels {
			buf.WriteString(l.Key)
			buf.WriteString(`="`)
			buf.WriteString(labelEscaper.Replace(l.Value))
			buf.WriteString(`",`)
		}
		buf.WriteString(`instance="`)
		buf.WriteString(labelEscaper.Replace(instance))
		buf.WriteString(`"} `)
		buf.WriteString(formatValue(s.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// formatValue prints integral values bare and everything else with exactly
// two decimal places. Percent metrics are already rounded to two places at
// computation, so no precision is lost.
func formatValue(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
