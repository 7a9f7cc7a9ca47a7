package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anyhost/protover/internal/common"
	"github.com/anyhost/protover/internal/protover"
	"github.com/anyhost/protover/internal/torversion"
)

var (
	configFile  string
	logLevel    string
	unvalidated bool
	orLater     bool

	logger *slog.Logger
	cfg    *common.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "protover",
	Short: "Inspect and check subprotocol version lists",
	Long: `protover parses subprotocol version lists such as "Link=1-5 Relay=1-2",
compares them with the versions this node implements, and negotiates peer
handshakes against the configured required protocols.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var parseCmd = &cobra.Command{
	Use:   "parse <list>",
	Short: "Parse a protocol list and print its canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var supportedCmd = &cobra.Command{
	Use:   "supported",
	Short: "Print the protocols this node implements",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printList[protover.Protocol](cmd.OutOrStdout(), protover.Supported())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <list>",
	Short: "Fail unless every version in the list is implemented here",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var unsupportedCmd = &cobra.Command{
	Use:   "unsupported <list>",
	Short: "Print the versions in the list this node does not implement",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnsupported,
}

var supportsCmd = &cobra.Command{
	Use:   "supports <list> <protocol> <version>",
	Short: "Report whether the list includes a protocol version",
	Args:  cobra.ExactArgs(3),
	RunE:  runSupports,
}

var legacyCmd = &cobra.Command{
	Use:   "legacy <platform>",
	Short: "Print the protocol list implied by a software version too old to advertise one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		list := protover.ComputeForOldTor(args[0], torversion.AsNewAs)
		logger.Debug("computed legacy protocols", slog.String("platform", args[0]), slog.String("protocols", list))
		fmt.Fprintln(cmd.OutOrStdout(), list)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&asTable, "table", false, "Print protocol lists as a table")

	parseCmd.Flags().BoolVarP(&unvalidated, "unvalidated", "u", false, "Accept protocol names this node does not know")
	supportsCmd.Flags().BoolVar(&orLater, "or-later", false, "Accept any listed range ending at or after the version")

	rootCmd.AddCommand(parseCmd, supportedCmd, checkCmd, unsupportedCmd, supportsCmd, legacyCmd, negotiateCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		loaded, err := common.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = common.DefaultConfig()
		cfg.ApplyEnv()
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger = common.NewLogger(cfg.LogLevel, os.Stderr)
	if configFile != "" {
		logger.Debug("loaded configuration", slog.String("file", configFile))
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	if unvalidated {
		entry, err := protover.ParseUnvalidatedEntry(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse %q: %w", args[0], err)
		}
		printList[protover.UnknownProtocol](cmd.OutOrStdout(), entry)
		return nil
	}

	entry, err := protover.ParseEntry(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", args[0], err)
	}
	printList[protover.Protocol](cmd.OutOrStdout(), entry)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	entry, err := protover.ParseUnvalidatedEntryAnyLen(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", args[0], err)
	}
	if missing := entry.GetUnsupported(); !missing.IsEmpty() {
		return fmt.Errorf("unsupported protocols: %s", missing)
	}
	logger.Debug("all protocols supported", slog.String("list", args[0]))
	return nil
}

func runUnsupported(cmd *cobra.Command, args []string) error {
	entry, err := protover.ParseUnvalidatedEntry(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", args[0], err)
	}
	printList[protover.UnknownProtocol](cmd.OutOrStdout(), entry.GetUnsupported())
	return nil
}

func runSupports(cmd *cobra.Command, args []string) error {
	name, err := protover.ParseUnknownProtocol(args[1])
	if err != nil {
		return err
	}
	v, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("%w: version %q", protover.ErrUnparseable, args[2])
	}

	check := protover.ListSupportsProtocol
	if orLater {
		check = protover.ListSupportsProtocolOrLater
	}
	fmt.Fprintln(cmd.OutOrStdout(), check(args[0], name, protover.Version(v)))
	return nil
}
