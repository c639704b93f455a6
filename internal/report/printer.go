// Package report renders replica status records and fans them out to sinks.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/bft-labs/tablestress/internal/domain"
)

// Printer writes one line per replica status. Lines from concurrent
// workers never interleave.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
}

// NewPrinter returns a Printer writing text lines, or JSON objects one per
// line when asJSON is set.
func NewPrinter(w io.Writer, asJSON bool) *Printer {
	return &Printer{w: w, json: asJSON}
}

// Publish writes status.
func (p *Printer) Publish(ctx context.Context, status domain.ReplicaStatus) error {
	var line []byte
	var err error
	if p.json {
		line, err = JSONLine(status)
	} else {
		line = TextLine(status)
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.w.Write(line)
	return err
}

// textLabels renames fields in text output. The table field of a replica
// record names the replica, not the source.
var textLabels = map[string]string{
	"table": "replica",
}

// TextLine renders status as "src: <source>, name: value, ..." followed by a
// newline.
func TextLine(status domain.ReplicaStatus) []byte {
	var b bytes.Buffer
	b.WriteString("src: ")
	b.WriteString(status.Source)
	for _, f := range status.Fields {
		name := f.Name
		if label, ok := textLabels[name]; ok {
			name = label
		}
		b.WriteString(", ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(formatValue(f.Value))
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// JSONLine renders status as a single JSON object keeping field order, with
// the source under "src", followed by a newline.
func JSONLine(status domain.ReplicaStatus) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"src":`)
	src, _ := json.Marshal(status.Source)
	b.Write(src)
	for _, f := range status.Fields {
		key, _ := json.Marshal(f.Name)
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", f.Name, err)
		}
		b.WriteByte(',')
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
