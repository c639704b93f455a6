// Package profile runs stress profiles: bulk creation, loading and replica
// setup over many generated volumes and tables, optionally in a loop whose
// profile is reloaded when its file changes.
package profile

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ops"
)

// Profile describes one bulk stress iteration.
type Profile struct {
	Name string `toml:"name"`

	// Source volumes are /<SrcVolumePrefix><NNNNN>.
	SrcVolumePrefix string `toml:"src_volume_prefix"`
	VolStartIndex   int    `toml:"vol_start_index"`
	NumSrcVols      int    `toml:"num_src_vols"`

	// Source tables are <volume>/<SrcTablePrefix><NNNNN> in every volume.
	SrcTablePrefix  string `toml:"src_table_prefix"`
	TableStartIndex int    `toml:"table_start_index"`
	NumSrcTables    int    `toml:"num_src_tables"`

	NumCFs  int  `toml:"num_cfs"`
	NumCols int  `toml:"num_cols"`
	NumRows int  `toml:"num_rows"`
	JSON    bool `toml:"json"`

	// Replicas per source table: cross-cluster, multimaster cross-cluster
	// and intra-cluster.
	NumReplica     int `toml:"num_replica"`
	NumMultimaster int `toml:"num_multimaster"`
	NumLocal       int `toml:"num_local"`

	LocalReplicaVolumeName string `toml:"local_replica_volume_name"`
	RemoteVolumeName       string `toml:"remote_volume_name"`
	RemoteClusterName      string `toml:"remote_cluster_name"`
}

// DefaultProfile returns the stock bulk profile.
func DefaultProfile() Profile {
	return Profile{
		Name:                   "bulk",
		SrcVolumePrefix:        "dbvolume",
		VolStartIndex:          1,
		NumSrcVols:             100,
		SrcTablePrefix:         "srctable",
		TableStartIndex:        1,
		NumSrcTables:           100,
		NumCFs:                 5,
		NumCols:                10,
		NumRows:                100000,
		NumReplica:             1,
		NumMultimaster:         1,
		NumLocal:               1,
		LocalReplicaVolumeName: "localvol",
		RemoteVolumeName:       "replvol",
		RemoteClusterName:      "zoom",
	}
}

// LoadProfile reads a TOML profile. Keys absent from the file keep their
// DefaultProfile values; unknown keys are rejected.
func LoadProfile(p string) (Profile, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return Profile{}, err
	}
	return ParseProfile(b)
}

// ParseProfile decodes and validates a TOML profile.
func ParseProfile(b []byte) (Profile, error) {
	prof := DefaultProfile()
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&prof); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
	}
	if err := prof.Validate(); err != nil {
		return Profile{}, err
	}
	return prof, nil
}

// Validate checks the profile for values the runner cannot act on.
func (p Profile) Validate() error {
	var problems []string
	if strings.Trim(p.SrcVolumePrefix, "/") == "" {
		problems = append(problems, "src_volume_prefix is required")
	}
	if strings.Trim(p.SrcTablePrefix, "/") == "" {
		problems = append(problems, "src_table_prefix is required")
	}
	if p.NumSrcVols < 1 {
		problems = append(problems, "num_src_vols must be at least 1")
	}
	if p.NumSrcTables < 1 {
		problems = append(problems, "num_src_tables must be at least 1")
	}
	if p.VolStartIndex < 0 || p.TableStartIndex < 0 {
		problems = append(problems, "start indexes must not be negative")
	}
	if p.NumReplica < 0 || p.NumMultimaster < 0 || p.NumLocal < 0 {
		problems = append(problems, "replica counts must not be negative")
	}
	if p.NumLocal > 0 && p.LocalReplicaVolumeName == "" {
		problems = append(problems, "local_replica_volume_name is required when num_local > 0")
	}
	if err := p.LoadParams().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProfile, strings.Join(problems, "; "))
	}
	return nil
}

// VolumePrefix is the mount path prefix of the source volumes.
func (p Profile) VolumePrefix() string {
	return "/" + strings.Trim(p.SrcVolumePrefix, "/")
}

// TablePrefixes returns the table path prefix inside each volume.
func (p Profile) TablePrefixes(volumes []string) []string {
	prefixes := make([]string, len(volumes))
	for i, v := range volumes {
		prefixes[i] = path.Join(v, p.SrcTablePrefix)
	}
	return prefixes
}

// RemotePath is the parent of cross-cluster replicas:
// /mapr/<cluster>/<remote volume>, or /<remote volume> without a cluster.
func (p Profile) RemotePath() string {
	parts := []string{"/"}
	if p.RemoteClusterName != "" {
		parts = append(parts, "mapr", p.RemoteClusterName)
	}
	if p.RemoteVolumeName != "" {
		parts = append(parts, p.RemoteVolumeName)
	}
	return path.Join(parts...)
}

// LocalPath is the parent of intra-cluster replicas.
func (p Profile) LocalPath() string {
	return path.Join("/", p.LocalReplicaVolumeName)
}

// LoadParams returns the loadtest shape of the profile.
func (p Profile) LoadParams() ops.LoadParams {
	return ops.LoadParams{Families: p.NumCFs, Columns: p.NumCols, Rows: p.NumRows, JSON: p.JSON}
}
