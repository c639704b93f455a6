package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/pkg/log"
)

// FieldFilter selects the replica status fields to report.
// The zero value reports every known field.
type FieldFilter struct {
	restricted bool
	want       map[string]bool
}

// ParseFieldFilter parses a comma separated field list. Names outside
// domain.KnownStatusFields are dropped and returned as unknown. An empty
// list yields the zero FieldFilter.
func ParseFieldFilter(csv string) (filter FieldFilter, unknown []string) {
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !filter.restricted {
			filter.restricted = true
			filter.want = make(map[string]bool)
		}
		if !domain.IsKnownStatusField(name) {
			unknown = append(unknown, name)
			continue
		}
		filter.want[name] = true
	}
	return filter, unknown
}

// Fields returns the selected fields in report order.
func (f FieldFilter) Fields() []string {
	if !f.restricted {
		return domain.KnownStatusFields
	}
	fields := make([]string, 0, len(f.want))
	for _, name := range domain.KnownStatusFields {
		if f.want[name] {
			fields = append(fields, name)
		}
	}
	return fields
}

// replicaList is the JSON envelope of `table replica list -json`.
type replicaList struct {
	Status string           `json:"status"`
	Data   []map[string]any `json:"data"`
	Errors []struct {
		ID   any    `json:"id"`
		Desc string `json:"desc"`
	} `json:"errors"`
}

// ReplicaListCommand returns the status query for source table path.
func (l *Library) ReplicaListCommand(path string) domain.Command {
	return l.admin("table", "replica", "list", "-path", path, "-json")
}

// FetchReplicaStatus queries the replicas of table path. Command, parse and
// admin CLI failures are logged and returned with no records.
func (l *Library) FetchReplicaStatus(ctx context.Context, path string, filter FieldFilter) ([]domain.ReplicaStatus, error) {
	cmd := l.ReplicaListCommand(path)
	l.logger.Debug("running", log.String("command", cmd.String()))

	res := l.runner.Run(ctx, cmd)
	if err := res.AsError(); err != nil {
		l.logger.Error("replica list failed",
			log.String("table", path),
			log.Int("exit_code", res.ExitCode),
			log.String("output", res.Output()),
		)
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	statuses, err := ParseReplicaList(path, res.Stdout, filter)
	if err != nil {
		l.logger.Error("replica list unusable",
			log.String("table", path),
			log.String("output", res.Output()),
			log.Err(err),
		)
		return nil, err
	}
	for _, s := range statuses {
		if len(s.Missing) > 0 {
			l.logger.Debug("replica record missing fields",
				log.String("table", path),
				log.Strings("missing", s.Missing),
			)
		}
	}
	return statuses, nil
}

// ParseReplicaList decodes `table replica list -json` output for source and
// projects every record onto filter. Numbers are kept exactly as printed.
func ParseReplicaList(source string, out []byte, filter FieldFilter) ([]domain.ReplicaStatus, error) {
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()

	var env replicaList
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode replica list: %v", domain.ErrMalformedOutput, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after replica list", domain.ErrMalformedOutput)
	}
	if strings.EqualFold(env.Status, "ERROR") {
		descs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			descs = append(descs, e.Desc)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrStatusError, strings.Join(descs, "; "))
	}

	fields := filter.Fields()
	statuses := make([]domain.ReplicaStatus, 0, len(env.Data))
	for _, record := range env.Data {
		statuses = append(statuses, project(source, record, fields))
	}
	return statuses, nil
}

func project(source string, record map[string]any, fields []string) domain.ReplicaStatus {
	status := domain.ReplicaStatus{
		Source: source,
		Fields: make([]domain.StatusField, 0, len(fields)+1),
	}
	for _, name := range fields {
		v, ok := record[name]
		if !ok {
			status.Missing = append(status.Missing, name)
			continue
		}
		status.Fields = append(status.Fields, domain.StatusField{Name: name, Value: v})
	}
	if v, ok := record[domain.ErrorsField]; ok {
		status.Fields = append(status.Fields, domain.StatusField{Name: domain.ErrorsField, Value: v})
	}
	return status
}

// IsQuery reports whether cmd is a read-only replica query.
func IsQuery(cmd domain.Command) bool {
	return len(cmd.Args) >= 3 && cmd.Args[0] == "table" && cmd.Args[1] == "replica" && cmd.Args[2] == "list"
}
