// Package cli implements the walletctl command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/internal/api"
	"github.com/me/walletctl/internal/config"
	"github.com/me/walletctl/internal/logging"
	"github.com/me/walletctl/internal/payment"
	"github.com/me/walletctl/internal/session"
	"github.com/me/walletctl/internal/store"
)

var (
	flagGateway   string
	flagConfig    string
	flagDataDir   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
	st     store.Store
	client *api.Client
	sess   *session.Manager
)

// defaultGateway returns the default gateway URL, checking WALLETCTL_GATEWAY first.
func defaultGateway() string {
	if s := os.Getenv("WALLETCTL_GATEWAY"); s != "" {
		return s
	}
	return "http://localhost:3000"
}

// NewRootCmd creates the root cobra command for the walletctl CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "walletctl",
		Short: "walletctl — CLI client for the digital wallet gateway",
		Long:  "walletctl manages a wallet session and drives balance queries, top-ups, and purchase payments against the wallet gateway.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st != nil {
				st.Close()
				st = nil
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagGateway, "gateway", "", "Wallet gateway URL (or WALLETCTL_GATEWAY env)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Local data directory (default ~/.walletctl)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newBalanceCmd(),
		newTopUpCmd(),
		newPurchasesCmd(),
		newPayCmd(),
		newConfigCmd(),
	)

	return root
}

// setup builds the shared logger, config, store, gateway client and session,
// then restores the session from the local store.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath())
	if err != nil {
		return err
	}

	if flagGateway != "" {
		cfg.GatewayURL = flagGateway
	} else if cfg.GatewayURL == "" {
		cfg.GatewayURL = defaultGateway()
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}

	logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err = store.NewSQLiteStore(filepath.Join(dataDir, "walletctl.db"), logger)
	if err != nil {
		return err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate local store: %w", err)
	}

	client = api.NewClient(cfg.GatewayURL, cfg.HTTPTimeout, logger)
	sess = session.NewManager(st, client, logger)
	client.SetTokenSource(sess)

	return sess.Restore(cmd.Context())
}

// configPath resolves the config file location without loading it.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	dir := flagDataDir
	if dir == "" {
		dir = os.Getenv("WALLETCTL_DATA_DIR")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".walletctl")
	}
	return filepath.Join(dir, "config.yaml")
}

// requireAuth fails fast when no session is signed in, gating the wallet
// commands the way the original gated its pages.
func requireAuth() error {
	if !sess.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'walletctl login' first")
	}
	return nil
}

// newPaymentFlow builds the purchase/payment flow over the shared client.
func newPaymentFlow() *payment.Flow {
	return payment.NewFlow(client, logger)
}
