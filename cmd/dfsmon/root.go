package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dm/dfsmon/internal/client"
	"github.com/dm/dfsmon/internal/config"
	"github.com/dm/dfsmon/internal/engine"
	"github.com/dm/dfsmon/internal/logging"
	"github.com/dm/dfsmon/internal/session"
	"github.com/dm/dfsmon/internal/sink"
	"github.com/dm/dfsmon/internal/tui"
)

// Environment variables consulted for credentials.
const (
	envUser     = "DFSMON_USER"
	envPassword = "DFSMON_PASSWORD"
)

// updateBuffer is how many poll outcomes may queue for the terminal UI.
const updateBuffer = 16

type globalFlags struct {
	configPath        string
	user              string
	insecure          bool
	interval          string
	requestTimeout    string
	replicationFactor int
	maxInFlight       int
	logLevel          string
	logFile           string
}

// NewRootCmd returns the dfsmon command tree. Without a subcommand it runs
// the interactive dashboard.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd, _ := newRootCmd(stdout, stderr)
	return cmd
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *globalFlags) {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "dfsmon [coordinator-url]",
		Short: "Live dashboard for a distributed file system cluster",
		Example: `  dfsmon http://localhost:8000
  dfsmon --insecure https://admin@coord.example.com:8443
  dfsmon --config dfsmon.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			return runTUI(cmd, cfg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&flags.user, "user", "u", "", "username (overrides $"+envUser+")")
	pf.BoolVar(&flags.insecure, "insecure", false, "skip TLS certificate verification")
	pf.StringVar(&flags.interval, "interval", "", "polling interval (e.g. 5s, 1m)")
	pf.StringVar(&flags.requestTimeout, "request-timeout", "", "per-request timeout (e.g. 10s)")
	pf.IntVar(&flags.replicationFactor, "replication-factor", 0, "target replicas per chunk")
	pf.IntVar(&flags.maxInFlight, "max-in-flight", 0, "concurrent snapshot fetches, 0 for unbounded")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&flags.logFile, "log-file", "", "log file used by the dashboard (default "+logging.DefaultFile()+")")

	cmd.AddCommand(newWatchCmd(flags, stdout, stderr))
	return cmd, flags
}

// resolveConfig merges, lowest precedence first: defaults, the config file,
// URL userinfo, environment credentials, and flags. A positional coordinator
// URL replaces the configured one.
func resolveConfig(cmd *cobra.Command, flags *globalFlags, args []string) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}

	var uriUser, uriPass string
	if len(args) > 0 {
		base, user, pass, err := parseCoordinatorURL(args[0])
		if err != nil {
			return cfg, err
		}
		cfg.Coordinator = base
		uriUser, uriPass = user, pass
	} else if cfg.Coordinator != "" {
		base, user, pass, err := parseCoordinatorURL(cfg.Coordinator)
		if err != nil {
			return cfg, errors.Wrap(err, "config coordinator")
		}
		cfg.Coordinator = base
		uriUser, uriPass = user, pass
	}

	fs := cmd.Flags()
	flagUser := ""
	if fs.Changed("user") {
		flagUser = flags.user
	}
	if uriUser == "" && uriPass == "" {
		uriUser, uriPass = cfg.Username, cfg.Password
	}
	cfg.Username, cfg.Password = resolveCredentials(uriUser, uriPass, os.Getenv(envUser), os.Getenv(envPassword), flagUser)

	if fs.Changed("insecure") {
		cfg.Insecure = flags.insecure
	}
	if fs.Changed("interval") {
		if cfg.Interval, err = parsePositiveDuration("interval", flags.interval); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("request-timeout") {
		if cfg.RequestTimeout, err = parsePositiveDuration("request-timeout", flags.requestTimeout); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("replication-factor") {
		cfg.ReplicationFactor = flags.replicationFactor
	}
	if fs.Changed("max-in-flight") {
		cfg.MaxInFlight = flags.maxInFlight
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if fs.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	return cfg, cfg.Validate()
}

// parseCoordinatorURL parses a coordinator URL and returns the base URL
// (without credentials, query or fragment), username, and password.
func parseCoordinatorURL(raw string) (baseURL, username, password string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", "", fmt.Errorf("unsupported scheme %q (must be http or https)", u.Scheme)
	}

	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("invalid URL %q: host is required", raw)
	}

	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return "", "", "", fmt.Errorf("invalid URL %q: port must be 1-65535", raw)
		}
	}

	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
		u.User = nil
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), username, password, nil
}

// resolveCredentials applies precedence: flag user > environment > URL
// userinfo. The password never comes from a flag.
func resolveCredentials(uriUser, uriPass, envUser, envPass, flagUser string) (user, pass string) {
	user, pass = uriUser, uriPass
	if envUser != "" {
		user = envUser
	}
	if envPass != "" {
		pass = envPass
	}
	if flagUser != "" {
		user = flagUser
	}
	return user, pass
}

func parsePositiveDuration(name, s string) (d time.Duration, err error) {
	d, err = time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "--%s", name)
	}
	if d <= 0 {
		return 0, errors.Errorf("--%s must be positive", name)
	}
	return d, nil
}

// newManager builds the coordinator client and a session manager that
// publishes to s.
func newManager(cfg config.Config, s engine.Sink, logger *log.Logger) (*session.Manager, error) {
	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            cfg.Coordinator,
		InsecureSkipVerify: cfg.Insecure,
		RequestTimeout:     cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	return session.NewManager(session.Config{
		Client:         c,
		Sink:           s,
		Logger:         logger,
		Interval:       cfg.Interval,
		RequestTimeout: cfg.RequestTimeout,
		MaxInFlight:    cfg.MaxInFlight,
		Aggregate:      engine.Options{ReplicationFactor: cfg.ReplicationFactor},
	})
}

// runTUI runs the dashboard. Logs go to a file because the terminal belongs
// to the UI.
func runTUI(cmd *cobra.Command, cfg config.Config) error {
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	defer f.Close()
	logger := logging.New(f, cfg.LogLevel)

	updates := sink.NewChannel(updateBuffer)
	mgr, err := newManager(cfg, updates, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	app := tui.NewApp(mgr, tui.Options{
		Coordinator: cfg.Coordinator,
		Username:    cfg.Username,
		Interval:    cfg.Interval,
		Updates:     updates.Updates(),
		Logger:      logger,
	})
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
