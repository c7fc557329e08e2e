package main

import (
	"io"
	"os"
	"time"

	"github.com/danmuck/stsctl/internal/logging"
	"github.com/danmuck/stsctl/internal/protocol/session"
	"github.com/spf13/cobra"
)

var version = "dev"

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	host       string
	port       int
	timeout    time.Duration
	quit       bool
	output     string
}

func main() {
	logging.ConfigureRuntime()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "stsctl",
		Short: "stsctl - STS status-datum client",
		Long: `stsctl writes and reads status datums on an STS server using its
binary frame protocol. Every command opens one connection, runs one
handshake and closes it.`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "TOML config file (client or gateway layout)")
	pf.StringVar(&opts.host, "host", session.DefaultHost, "STS server host")
	pf.IntVar(&opts.port, "port", session.DefaultPort, "STS server port")
	pf.DurationVar(&opts.timeout, "timeout", session.DefaultTimeout, "dial and per-read/write timeout")
	pf.BoolVar(&opts.quit, "quit-after-read", false, "send Q after the end-of-request sentinel")
	pf.StringVarP(&opts.output, "output", "o", "table", "output format: table|json|yaml")

	root.AddCommand(
		newWriteCmd(opts),
		newReadCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// sessionConfig layers defaults, the config file and explicitly set flags.
func (o *options) sessionConfig(cmd *cobra.Command) (session.Config, error) {
	cfg := session.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = loadSessionConfig(o.configPath, cfg); err != nil {
			return session.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("quit-after-read") {
		cfg.QuitAfterRead = o.quit
	}
	return cfg, cfg.Validate()
}

func (o *options) client(cmd *cobra.Command) (*session.Client, error) {
	cfg, err := o.sessionConfig(cmd)
	if err != nil {
		return nil, err
	}
	return session.NewClient(cfg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stsctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("stsctl %s\n", version)
		},
	}
}
