package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipscribe/internal/config"
	"clipscribe/internal/language"
	"clipscribe/internal/srt"
	"clipscribe/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted transcription runs",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsExportCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))
	runsCmd.AddCommand(newRunsClearCommand(ctx))

	return runsCmd
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				runs, err := s.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.ID),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
						truncateText(run.MediaPath, 40),
						run.Language,
						fmt.Sprintf("%d", run.SegmentCount),
						formatConfidence(run.AggregateConfidence),
						fmt.Sprintf("%d", run.ImprovementsApplied),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]tableColumn{
						{title: "Run"},
						{title: "Created"},
						{title: "Media"},
						{title: "Lang"},
						{title: "Segs", numeric: true},
						{title: "Conf", numeric: true},
						{title: "Improved", numeric: true},
					},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				run, err := resolveRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				segments, err := s.RunSegments(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, map[string]any{
						"run":      run,
						"segments": segments,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:        %s\n", run.ID)
				fmt.Fprintf(out, "Media:      %s\n", run.MediaPath)
				fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Local().Format(time.RFC1123))
				fmt.Fprintf(out, "Language:   %s\n", languageLabel(run.Language))
				fmt.Fprintf(out, "Confidence: %.2f (%d of %d segments low)\n", run.AggregateConfidence, run.LowConfidenceCount, run.SegmentCount)
				fmt.Fprintf(out, "Improved:   %d\n", run.ImprovementsApplied)
				fmt.Fprintf(out, "Elapsed:    %.1fs\n\n", run.ElapsedSeconds)
				fmt.Fprintln(out, renderSegmentsTable(segments))
				if run.FullText != "" {
					fmt.Fprintf(out, "\n%s\n", run.FullText)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

func newRunsExportCommand(ctx *commandContext) *cobra.Command {
	var srtPath string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a run's transcript as SRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(srtPath) == "" {
				return fmt.Errorf("--srt path is required")
			}
			return ctx.withStore(func(s *store.Store) error {
				run, err := resolveRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				segments, err := s.RunSegments(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				target, err := config.ExpandPath(srtPath)
				if err != nil {
					return fmt.Errorf("resolve srt path: %w", err)
				}
				if err := srt.WriteFile(target, segments); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote subtitles to %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&srtPath, "srt", "", "Destination SRT file path")
	return cmd
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete one run and its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				run, err := resolveRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				removed, err := s.DeleteRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Run %s not found\n", run.ID)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s deleted\n", run.ID)
				return nil
			})
		},
	}
}

func newRunsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				removed, err := s.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}

// resolveRun accepts a full run id or an unambiguous prefix.
func resolveRun(cmd *cobra.Command, s *store.Store, arg string) (*store.Run, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("run id is required")
	}

	run, err := s.GetRun(cmd.Context(), arg)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	runs, err := s.ListRuns(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var matches []*store.Run
	for _, candidate := range runs {
		if strings.HasPrefix(candidate.ID, arg) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no run matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// languageLabel renders a stored language code with its English name.
func languageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "unknown"
	}
	if name := language.DisplayName(code); name != "" && !strings.EqualFold(name, code) {
		return fmt.Sprintf("%s (%s)", code, name)
	}
	return code
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
