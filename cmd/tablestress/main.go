package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/tablestress/internal/cliconfig"
)

const longHelp = `Drive bulk table and volume workloads against a MapR-DB style cluster.

Every bulk operation is split into contiguous partitions and run by a bounded
set of concurrent workers through the cluster's admin CLI (maprcli), its
filesystem listing (hadoop fs -ls) and the loadtest generator.

Configuration is layered: defaults, then $HOME/.tablestress/config.toml (or
--config), then TABLESTRESS_* environment variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  tablestress create volume /dbvolume --num-volumes 10
  tablestress create table /dbvolume00001/srctable --num-tables 100 --workers 20
  tablestress load volume /dbvolume00001 --num-cfs 5 --num-cols 10
  tablestress autosetup volume /dbvolume00001 /mapr/zoom/replvol --num-replica 2
  tablestress repltrack volume --path /dbvolume00001 --filter replicaState,copyTableCompletionPercentage
  tablestress stress bulk --profile bulk.toml --loop --interval 30m --report-dir /var/tmp/stress
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the configuration bound to the persistent flags and the env
// built from it before any subcommand runs.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	env     *env
}

func main() {
	bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := &cli{cfg: cliconfig.DefaultConfig()}
	if err := c.execute(ctx, os.Args[1:]); err != nil {
		logger := bootLog
		if c.env != nil {
			logger = c.env.zlog
		}
		logger.Error().Err(err).Msg("tablestress")
		cancel()
		os.Exit(1)
	}
}

// execute runs the command tree and releases the env whether or not the
// command failed.
func (c *cli) execute(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if c.env != nil {
		c.env.close()
	}
	return err
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "tablestress",
		Short:             "Parallel bulk operations and replication stress for MapR-DB tables",
		Long:              longHelp,
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.tablestress/config.toml)")
	f.IntVar(&c.cfg.Workers, "workers", c.cfg.Workers, "maximum concurrent workers per batch")
	f.IntVar(&c.cfg.StatusWorkers, "status-workers", c.cfg.StatusWorkers, "maximum concurrent workers for replica status collection")
	f.DurationVar(&c.cfg.Deadline, "deadline", c.cfg.Deadline, "per-batch deadline; remaining items are skipped when it expires (0 = none)")
	f.BoolVar(&c.cfg.DryRun, "dry-run", c.cfg.DryRun, "log mutating commands instead of running them")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&c.cfg.LogFormat, "log-format", c.cfg.LogFormat, "log format (console, json)")
	f.StringVar(&c.cfg.MetricsAddr, "metrics-addr", c.cfg.MetricsAddr, "serve /metrics and /healthz on this address")
	f.StringVar(&c.cfg.SSHHost, "ssh-host", c.cfg.SSHHost, "run commands on this cluster node over ssh")
	f.StringVar(&c.cfg.SSHUser, "ssh-user", c.cfg.SSHUser, "ssh user")
	f.StringVar(&c.cfg.SSHKeyPath, "ssh-key", c.cfg.SSHKeyPath, "ssh private key")

	root.AddCommand(
		c.createCommand(),
		c.deleteCommand(),
		c.loadCommand(),
		c.autosetupCommand(),
		c.repltrackCommand(),
		c.stressCommand(),
	)
	return root
}

// setup resolves the layered configuration and builds the env.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	zlog, err := cliconfig.NewLogger(os.Stderr, c.cfg.LogLevel, c.cfg.LogFormat)
	if err != nil {
		return err
	}

	c.env = newEnv(c.cfg, zlog)
	c.env.serveMetrics()
	return nil
}
