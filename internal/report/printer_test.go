package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/testutil"
)

func sampleStatus() domain.ReplicaStatus {
	return domain.ReplicaStatus{
		Source: "/dbvolume00001/srctable00001",
		Fields: []domain.StatusField{
			{Name: "table", Value: "/repl/rtable_slave1"},
			{Name: "idx", Value: json.Number("1")},
			{Name: "paused", Value: false},
			{Name: "errors", Value: []any{map[string]any{"desc": "unreachable"}}},
		},
	}
}

func TestTextLine(t *testing.T) {
	got := string(TextLine(sampleStatus()))
	want := `src: /dbvolume00001/srctable00001, replica: /repl/rtable_slave1, idx: 1, paused: false, errors: [{"desc":"unreachable"}]` + "\n"
	assert.Equal(t, want, got)
}

func TestTextLine_NoFields(t *testing.T) {
	assert.Equal(t, "src: /v/t\n", string(TextLine(domain.ReplicaStatus{Source: "/v/t"})))
}

func TestJSONLine(t *testing.T) {
	line, err := JSONLine(sampleStatus())
	require.NoError(t, err)
	assert.Equal(t,
		`{"src":"/dbvolume00001/srctable00001","table":"/repl/rtable_slave1","idx":1,"paused":false,"errors":[{"desc":"unreachable"}]}`+"\n",
		string(line))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(line, &decoded))
	assert.Equal(t, "/dbvolume00001/srctable00001", decoded["src"])
}

func TestPrinter_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), sampleStatus())
		}()
	}
	wg.Wait()

	want := string(TextLine(sampleStatus()))
	lines := strings.SplitAfter(buf.String(), "\n")
	lines = lines[:len(lines)-1]
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.Equal(t, want, l)
	}
}

type failingSink struct{}

func (failingSink) Publish(ctx context.Context, status domain.ReplicaStatus) error {
	return errors.New("broker down")
}

func TestMultiSink(t *testing.T) {
	first := &testutil.StatusRecorder{}
	second := &testutil.StatusRecorder{}
	sink := MultiSink{first, failingSink{}, second}

	err := sink.Publish(context.Background(), sampleStatus())

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, first.Statuses(), 1)
	assert.Len(t, second.Statuses(), 1)
	assert.NoError(t, MultiSink{}.Publish(context.Background(), sampleStatus()))
}
