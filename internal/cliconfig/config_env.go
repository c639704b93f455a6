package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (TABLESTRESS_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("workers", os.Getenv("TABLESTRESS_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("status-workers", os.Getenv("TABLESTRESS_STATUS_WORKERS"), &cfg.StatusWorkers); err != nil {
		return err
	}
	if err := s.setDuration("deadline", os.Getenv("TABLESTRESS_DEADLINE"), &cfg.Deadline); err != nil {
		return err
	}
	s.setBoolFromString("dry-run", os.Getenv("TABLESTRESS_DRY_RUN"), &cfg.DryRun)

	s.setString("admin-cli", os.Getenv("TABLESTRESS_ADMIN_CLI"), &cfg.AdminCLI)
	s.setString("hadoop-cli", os.Getenv("TABLESTRESS_HADOOP_CLI"), &cfg.HadoopCLI)
	s.setString("loadtest-path", os.Getenv("TABLESTRESS_LOADTEST_PATH"), &cfg.LoadTestPath)
	if err := s.setIntFromString("suffix-width", os.Getenv("TABLESTRESS_SUFFIX_WIDTH"), &cfg.SuffixWidth); err != nil {
		return err
	}
	s.setString("replica-prefix", os.Getenv("TABLESTRESS_REPLICA_PREFIX"), &cfg.ReplicaPrefix)
	s.setString("multimaster-replica-prefix", os.Getenv("TABLESTRESS_MULTIMASTER_REPLICA_PREFIX"), &cfg.MultimasterReplicaPrefix)
	if err := s.setIntFromString("volume-replication", os.Getenv("TABLESTRESS_VOLUME_REPLICATION"), &cfg.VolumeReplication); err != nil {
		return err
	}
	s.setString("volume-topology", os.Getenv("TABLESTRESS_VOLUME_TOPOLOGY"), &cfg.VolumeTopology)

	s.setString("log-level", os.Getenv("TABLESTRESS_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("TABLESTRESS_LOG_FORMAT"), &cfg.LogFormat)
	s.setString("metrics-addr", os.Getenv("TABLESTRESS_METRICS_ADDR"), &cfg.MetricsAddr)

	s.setString("amqp-url", os.Getenv("TABLESTRESS_AMQP_URL"), &cfg.AMQPURL)
	s.setString("amqp-exchange", os.Getenv("TABLESTRESS_AMQP_EXCHANGE"), &cfg.AMQPExchange)

	s.setString("ssh-host", os.Getenv("TABLESTRESS_SSH_HOST"), &cfg.SSHHost)
	s.setString("ssh-port", os.Getenv("TABLESTRESS_SSH_PORT"), &cfg.SSHPort)
	s.setString("ssh-user", os.Getenv("TABLESTRESS_SSH_USER"), &cfg.SSHUser)
	s.setString("ssh-key", os.Getenv("TABLESTRESS_SSH_KEY"), &cfg.SSHKeyPath)
	s.setString("ssh-known-hosts", os.Getenv("TABLESTRESS_SSH_KNOWN_HOSTS"), &cfg.SSHKnownHosts)
	s.setBoolFromString("ssh-insecure", os.Getenv("TABLESTRESS_SSH_INSECURE"), &cfg.SSHInsecure)
	if err := s.setDuration("ssh-timeout", os.Getenv("TABLESTRESS_SSH_TIMEOUT"), &cfg.SSHTimeout); err != nil {
		return err
	}

	return nil
}
