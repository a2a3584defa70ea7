package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"behaviord/internal/capture"
	"behaviord/internal/config"
	"behaviord/internal/logging"
	"behaviord/internal/store"
	"behaviord/internal/summary"
)

const version = "0.1.0"

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	configPath string
}

type runFlags struct {
	output      string
	summaryPath string
}

type sessionsFlags struct {
	limit int
}

func buildRoot() *cobra.Command {
	global := &globalFlags{}

	root := &cobra.Command{
		Use:   "behaviord",
		Short: "Desktop behavioral biometrics collector",
		Long: `Behaviord records input behavior for training user-identity models:
pointer kinematics, key transition timing, and coarse application context.
Events are appended to a CSV dataset; no typed text is ever reconstructed.

Examples:
  behaviord run                        # Record to user_behavior_data.csv
  behaviord run -o session1.csv        # Record to a custom file
  behaviord sessions -n 5              # Show the five most recent sessions`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&global.configPath, "config", "",
		"path to TOML config file (optional)")

	root.AddCommand(
		createRunCommand(global),
		createSessionsCommand(global),
		createConfigCommand(global),
		createVersionCommand(),
	)
	return root
}

func createRunCommand(global *globalFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a capture session",
		Long: `Run installs the global input hooks and records events until q is
pressed or the process receives an interrupt. Statistics are printed when
the session ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, global, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"CSV output path (overrides config)")
	cmd.Flags().StringVar(&flags.summaryPath, "summary-json", "",
		"also write the session summary as JSON to this path")
	return cmd
}

func runCapture(cmd *cobra.Command, global *globalFlags, flags *runFlags) error {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return err
	}
	if flags.output != "" {
		cfg.Capture.OutputPath = flags.output
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	rec := capture.New(capture.Options{
		OutputPath:      cfg.Capture.OutputPath,
		MoveSampleEvery: cfg.Capture.MoveSampleEvery,
		FlushLines:      cfg.Sink.FlushLines,
		SamplerInterval: time.Duration(cfg.Sampler.IntervalMs) * time.Millisecond,
		RingCapacity:    cfg.Ring.Capacity,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rec.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "behaviord %s\n", version)
	fmt.Fprintf(out, "recording to %s\n", cfg.Capture.OutputPath)
	fmt.Fprintln(out, "press q to stop")

	rec.RunUntilQuit(ctx)
	if err := rec.Stop(); err != nil {
		logging.Error("session shutdown incomplete", "error", err)
	}

	sum := rec.Summary()
	fmt.Fprint(out, sum.Render())
	fmt.Fprintf(out, "data saved to %s\n", cfg.Capture.OutputPath)

	if flags.summaryPath != "" {
		if err := sum.WriteJSON(flags.summaryPath); err != nil {
			return err
		}
	}
	if cfg.Storage.Enabled {
		if err := persistSession(cfg.Storage.Path, cfg.Capture.OutputPath, sum); err != nil {
			logging.Error("session not persisted", "error", err)
		}
	}
	return nil
}

func createSessionsCommand(global *globalFlags) *cobra.Command {
	flags := &sessionsFlags{}
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.configPath)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.ListSessions(flags.limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "no sessions recorded")
				return nil
			}
			for _, s := range sessions {
				started := time.UnixMilli(s.StartedAtMs).Format(time.RFC3339)
				dur := time.Duration(s.EndedAtMs-s.StartedAtMs) * time.Millisecond
				fmt.Fprintf(out, "#%d  %s  %-8s  %6d events  %s\n",
					s.ID, started, dur.Round(time.Second), s.TotalEvents, s.OutputPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 20,
		"maximum sessions to list (0 = all)")
	return cmd
}

func createConfigCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.configPath)
			if err != nil {
				return err
			}
			text, err := cfg.TOML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "behaviord %s\n", version)
		},
	}
}

func initLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return err
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	if cfg.Logging.Output != "" {
		lc.Output = cfg.Logging.Output
	}
	if cfg.Logging.FilePath != "" {
		lc.FilePath = cfg.Logging.FilePath
	}
	logging.SetDefault(logging.New(lc))
	return nil
}

func persistSession(dbPath, outputPath string, sum summary.Summary) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.InsertSession(&store.Session{
		StartedAtMs:      sum.StartedAtMs,
		EndedAtMs:        sum.EndedAtMs,
		OutputPath:       outputPath,
		TotalEvents:      sum.TotalEvents,
		PointerMoves:     sum.PointerMoves,
		Clicks:           sum.Clicks,
		KeyPresses:       sum.KeyPresses,
		MeanPointerSpeed: sum.MeanPointerSpeed,
		LastActiveApp:    sum.LastActiveApp,
		LastBackground:   sum.LastBackground,
		DroppedLines:     sum.DroppedLines,
	})
	return err
}
