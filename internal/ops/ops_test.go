package ops

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/testutil"
	"github.com/bft-labs/tablestress/pkg/log"
)

func newLibrary(runner *testutil.RecordingRunner) *Library {
	return New(Config{}, runner, log.NewNoopLogger())
}

func TestSuffixedNames(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		start  int
		count  int
		width  int
		want   []string
	}{
		{name: "default width", prefix: "/dbvolume", start: 1, count: 3, width: 5,
			want: []string{"/dbvolume00001", "/dbvolume00002", "/dbvolume00003"}},
		{name: "start offset", prefix: "/vol/stable", start: 98, count: 3, width: 2,
			want: []string{"/vol/stable98", "/vol/stable99", "/vol/stable100"}},
		{name: "zero count", prefix: "/x", start: 1, count: 0, width: 5, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuffixedNames(tt.prefix, tt.start, tt.count, tt.width))
		})
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	lib := New(Config{SuffixWidth: 3}, &testutil.RecordingRunner{}, log.NewNoopLogger())
	cfg := lib.Config()

	assert.Equal(t, 3, cfg.SuffixWidth)
	assert.Equal(t, "maprcli", cfg.AdminCLI)
	assert.Equal(t, "rtable", cfg.ReplicaPrefix)
	assert.Equal(t, "mmrtable", cfg.MultimasterReplicaPrefix)
	assert.Equal(t, 3, cfg.VolumeReplication)
	assert.Equal(t, []string{"/t001"}, lib.SuffixedNames("/t", 1, 1))
}

func TestReplicaNames(t *testing.T) {
	lib := newLibrary(&testutil.RecordingRunner{})

	got := lib.ReplicaNames("/vol/tableA", "/repl", 2, false)
	assert.Equal(t, []string{
		"/repl/rtablevoltableA_slave1",
		"/repl/rtablevoltableA_slave2",
	}, got)

	got = lib.ReplicaNames("/vol/tableA", "/mapr/zoom/replvol/", 1, true)
	assert.Equal(t, []string{"/mapr/zoom/replvol/mmrtablevoltableA_slave1"}, got)

	got = lib.ReplicaNames("/a/b/c", "/", 1, false)
	assert.Equal(t, []string{"/rtableabc_slave1"}, got)

	assert.Empty(t, lib.ReplicaNames("/vol/tableA", "/repl", 0, false))
}

func TestAutosetupReplica_Commands(t *testing.T) {
	runner := &testutil.RecordingRunner{}
	lib := newLibrary(runner)

	require.NoError(t, lib.AutosetupReplica(context.Background(), "/vol/tableA", "/repl", 2, false))

	cmds := runner.Commands()
	require.Len(t, cmds, 2)
	for i, cmd := range cmds {
		assert.Equal(t, "maprcli", cmd.Name)
		assert.Equal(t, []string{"table", "replica", "autosetup"}, cmd.Args[:3])
		src, _ := cmd.FlagValue("-path")
		assert.Equal(t, "/vol/tableA", src)
		replica, _ := cmd.FlagValue("-replica")
		assert.True(t, strings.HasPrefix(replica, "/repl/rtable"))
		assert.True(t, strings.HasSuffix(replica, []string{"_slave1", "_slave2"}[i]))
		assert.NotContains(t, strings.TrimPrefix(replica, "/repl/"), "/")
		assert.False(t, cmd.HasFlag("-multimaster"))
	}
}

func TestAutosetupReplica_Multimaster(t *testing.T) {
	runner := &testutil.RecordingRunner{}
	lib := newLibrary(runner)

	require.NoError(t, lib.AutosetupReplica(context.Background(), "/vol/t1", "/repl", 1, true))

	cmds := runner.Commands()
	require.Len(t, cmds, 1)
	v, ok := cmds[0].FlagValue("-multimaster")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t,
		"maprcli table replica autosetup -path /vol/t1 -replica /repl/mmrtablevolt1_slave1 -directcopy true -multimaster true",
		cmds[0].String())
}

func TestAutosetupReplica_AttemptsEveryReplica(t *testing.T) {
	runner := &testutil.RecordingRunner{
		Respond: func(cmd domain.Command) domain.Result {
			if v, _ := cmd.FlagValue("-replica"); strings.HasSuffix(v, "_slave1") {
				return testutil.Failure(1, "replica exists")
			}
			return domain.Result{}
		},
	}
	lib := newLibrary(runner)

	err := lib.AutosetupReplica(context.Background(), "/vol/t1", "/repl", 3, false)

	assert.Len(t, runner.Commands(), 3)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
}

func TestResourceCommands(t *testing.T) {
	lib := newLibrary(&testutil.RecordingRunner{})

	tests := []struct {
		name string
		cmd  domain.Command
		want string
	}{
		{"create table", lib.CreateTableCommand("/dbvolume00001/srctable00001"),
			"maprcli table create -path /dbvolume00001/srctable00001"},
		{"delete table", lib.DeleteTableCommand("/dbvolume00001/srctable00001"),
			"maprcli table delete -path /dbvolume00001/srctable00001"},
		{"create volume", lib.CreateVolumeCommand("/dbvolume00001"),
			"maprcli volume create -name dbvolume00001 -path /dbvolume00001 -replication 3 -topology /data"},
		{"delete volume", lib.DeleteVolumeCommand("/dbvolume00001"),
			"maprcli volume remove -name dbvolume00001 -force true"},
		{"load", lib.LoadTableCommand("/v/t", LoadParams{Families: 5, Columns: 10, Rows: 100000}),
			"/opt/mapr/server/tools/loadtest -mode put -table /v/t -numfamilies 5 -numcols 10 -numrows 100000"},
		{"load json", lib.LoadTableCommand("/v/t", LoadParams{Families: 1, Columns: 3, Rows: 10, JSON: true}),
			"/opt/mapr/server/tools/loadtest -mode put -table /v/t -numfamilies 1 -numcols 3 -numrows 10 -isjson true"},
		{"replica list", lib.ReplicaListCommand("/v/t"),
			"maprcli table replica list -path /v/t -json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}

func TestCreateTable_FailureIsError(t *testing.T) {
	runner := &testutil.RecordingRunner{
		Respond: func(cmd domain.Command) domain.Result { return testutil.Failure(2, "table exists") },
	}
	lib := newLibrary(runner)

	err := lib.CreateTable(context.Background(), "/v/t")
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.ErrorContains(t, err, "maprcli table create -path /v/t")
}

func TestLoadParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultLoadParams().Validate())
	assert.Error(t, LoadParams{Families: 1, Columns: 0, Rows: 1}.Validate())
}
