package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anyhost/protover/internal/common"
	"github.com/anyhost/protover/internal/protover"
)

var (
	configFile string
	logLevel   string
	threshold  int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dirvote [protocol-list...]",
	Short: "Compute the protocol versions a threshold of voters agree on",
	Long: `dirvote aggregates the protocol lists advertised by a set of voters and
prints every version listed by at least the threshold of them. Votes come from
the vote section of the configuration file and from the command line.`,
	SilenceUsage: true,
	RunE:         runVote,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Votes needed per version (default: simple majority)")
}

func runVote(cmd *cobra.Command, args []string) error {
	cfg := common.DefaultConfig()
	if configFile != "" {
		loaded, err := common.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Vote.Threshold = threshold
	}
	logger := common.NewLogger(cfg.LogLevel, os.Stderr)

	for i, list := range args {
		cfg.Vote.Votes = append(cfg.Vote.Votes, common.Vote{Name: "arg" + strconv.Itoa(i), Protocols: list})
	}
	if len(cfg.Vote.Votes) == 0 {
		return fmt.Errorf("no votes given")
	}

	result := computeVote(logger, cfg.Vote)
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

// computeVote parses every vote, logging and dropping the ones that do not
// parse, and returns the serialized result.
func computeVote(logger *slog.Logger, vc common.VoteConfig) string {
	need := vc.EffectiveThreshold()

	var names []string
	var votes []protover.UnvalidatedEntry
	for _, v := range vc.Votes {
		entry, err := protover.ParseUnvalidatedEntryAnyLen(v.Protocols)
		if err != nil {
			logger.Warn("skipping unparseable vote", slog.String("voter", v.Name), slog.Any("error", err))
			continue
		}
		names = append(names, v.Name)
		votes = append(votes, entry)
	}

	result, report := protover.ComputeVoteReport(votes, need)
	for _, i := range report.Skipped {
		logger.Warn("skipping oversized vote",
			slog.String("voter", names[i]),
			slog.Uint64("versions", votes[i].VersionCount()),
			slog.Int("limit", protover.MaxProtocolsToExpand))
	}

	logger.Info("vote computed",
		slog.Int("voters", len(vc.Votes)),
		slog.Int("counted", report.Voters-len(report.Skipped)),
		slog.Int("threshold", need),
		slog.Int("protocols", result.Len()))
	return result.String()
}
