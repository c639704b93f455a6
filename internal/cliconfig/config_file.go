package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Workers       int    `toml:"workers"`
	StatusWorkers int    `toml:"status_workers"`
	Deadline      string `toml:"deadline"`
	DryRun        *bool  `toml:"dry_run"`

	AdminCLI                 string `toml:"admin_cli"`
	HadoopCLI                string `toml:"hadoop_cli"`
	LoadTestPath             string `toml:"loadtest_path"`
	SuffixWidth              int    `toml:"suffix_width"`
	ReplicaPrefix            string `toml:"replica_prefix"`
	MultimasterReplicaPrefix string `toml:"multimaster_replica_prefix"`
	VolumeReplication        int    `toml:"volume_replication"`
	VolumeTopology           string `toml:"volume_topology"`

	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	MetricsAddr string `toml:"metrics_addr"`

	AMQPURL      string `toml:"amqp_url"`
	AMQPExchange string `toml:"amqp_exchange"`

	SSHHost       string `toml:"ssh_host"`
	SSHPort       string `toml:"ssh_port"`
	SSHUser       string `toml:"ssh_user"`
	SSHKeyPath    string `toml:"ssh_key_path"`
	SSHKnownHosts string `toml:"ssh_known_hosts"`
	SSHInsecure   *bool  `toml:"ssh_insecure"`
	SSHTimeout    string `toml:"ssh_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.tablestress/config.toml, or "" when the
// home directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tablestress", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("status-workers", fc.StatusWorkers, &cfg.StatusWorkers)
	if err := s.setDuration("deadline", fc.Deadline, &cfg.Deadline); err != nil {
		return err
	}
	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)

	s.setString("admin-cli", fc.AdminCLI, &cfg.AdminCLI)
	s.setString("hadoop-cli", fc.HadoopCLI, &cfg.HadoopCLI)
	s.setString("loadtest-path", fc.LoadTestPath, &cfg.LoadTestPath)
	s.setInt("suffix-width", fc.SuffixWidth, &cfg.SuffixWidth)
	s.setString("replica-prefix", fc.ReplicaPrefix, &cfg.ReplicaPrefix)
	s.setString("multimaster-replica-prefix", fc.MultimasterReplicaPrefix, &cfg.MultimasterReplicaPrefix)
	s.setInt("volume-replication", fc.VolumeReplication, &cfg.VolumeReplication)
	s.setString("volume-topology", fc.VolumeTopology, &cfg.VolumeTopology)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	s.setString("amqp-url", fc.AMQPURL, &cfg.AMQPURL)
	s.setString("amqp-exchange", fc.AMQPExchange, &cfg.AMQPExchange)

	s.setString("ssh-host", fc.SSHHost, &cfg.SSHHost)
	s.setString("ssh-port", fc.SSHPort, &cfg.SSHPort)
	s.setString("ssh-user", fc.SSHUser, &cfg.SSHUser)
	s.setString("ssh-key", fc.SSHKeyPath, &cfg.SSHKeyPath)
	s.setString("ssh-known-hosts", fc.SSHKnownHosts, &cfg.SSHKnownHosts)
	s.setBool("ssh-insecure", fc.SSHInsecure, &cfg.SSHInsecure)
	if err := s.setDuration("ssh-timeout", fc.SSHTimeout, &cfg.SSHTimeout); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
