package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"clipscribe/internal/config"
	"clipscribe/internal/media/audio"
	"clipscribe/internal/media/ffprobe"
	"clipscribe/internal/pipeline"
	"clipscribe/internal/preflight"
	"clipscribe/internal/segment"
	"clipscribe/internal/services/cloudstt"
	"clipscribe/internal/services/whisper"
	"clipscribe/internal/srt"
	"clipscribe/internal/store"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		language string
		srtPath  string
		jsonOut  bool
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <media-file>",
		Short: "Transcribe a media file through the tiered pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mediaPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve media path: %w", err)
			}
			if info, err := os.Stat(mediaPath); err != nil {
				return fmt.Errorf("media file: %w", err)
			} else if info.IsDir() {
				return fmt.Errorf("media path %s is a directory", mediaPath)
			}

			if err := requireBinaries(cfg); err != nil {
				return err
			}

			// One transcription at a time per work directory; concurrent runs
			// would fight over engine memory and disk.
			lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "clipscribe.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another transcription is already running (lock: %s)", lock.Path())
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			extractor := audio.NewExtractor(cfg.FFmpegBinary())
			provider := whisper.NewProvider(cfg)
			probe := func(ctx context.Context, path string) float64 {
				return ffprobe.ProbeDuration(ctx, cfg.FFprobeBinary(), path)
			}
			var cloud pipeline.CloudTranscriber
			if cfg.CloudEnabled() {
				cloud = cloudstt.NewClient(cloudstt.Config{
					BaseURL:    cfg.Cloud.BaseURL,
					Credential: cfg.Cloud.Credential,
					Model:      cfg.Cloud.Model,
					Timeout:    cfg.CloudTimeout(),
				})
			}

			orchestrator := pipeline.NewOrchestrator(cfg, engineProvider{inner: provider}, extractor, cloud, probe, logger)
			report, err := orchestrator.Run(runCtx, pipeline.MediaSource{Path: mediaPath, Language: language})
			if err != nil {
				return err
			}

			if !noSave {
				if err := persistReport(cmd.Context(), cfg, report); err != nil {
					return err
				}
			}
			if srtPath != "" {
				target, err := config.ExpandPath(srtPath)
				if err != nil {
					return fmt.Errorf("resolve srt path: %w", err)
				}
				if err := srt.WriteFile(target, report.Result.Segments); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote subtitles to %s\n", target)
			}

			if jsonOut {
				return writeJSON(cmd, reportJSON(report))
			}
			printReport(cmd, report, cfg.Transcription.ConfidenceRetryThreshold)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint passed to the engines")
	cmd.Flags().StringVar(&srtPath, "srt", "", "Write the transcript as an SRT file to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the run to the local database")
	return cmd
}

// requireBinaries fails fast when a required external tool is missing.
func requireBinaries(cfg *config.Config) error {
	var missing []string
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if !status.Available && !status.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

func persistReport(ctx context.Context, cfg *config.Config, report *pipeline.RunReport) error {
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	run := &store.Run{
		ID:                  report.RunID,
		MediaPath:           report.Media,
		Language:            report.Result.Language,
		FullText:            report.Result.FullText,
		AggregateConfidence: report.Result.AggregateConfidence,
		LowConfidenceCount:  report.Result.LowConfidenceCount,
		ImprovementsApplied: report.Result.ImprovementsApplied,
		ElapsedSeconds:      report.Elapsed.Seconds(),
	}
	return s.SaveRun(ctx, run, report.Result.Segments)
}

func printReport(cmd *cobra.Command, report *pipeline.RunReport, lowThreshold float64) {
	out := cmd.OutOrStdout()
	result := report.Result

	fmt.Fprintf(out, "Run %s finished in %s\n", report.RunID, report.Elapsed.Round(timeRounding))
	fmt.Fprintf(out, "Aggregate confidence %.2f, %d segments (%d below %.2f), %d improved\n\n",
		result.AggregateConfidence, len(result.Segments), result.LowConfidenceCount, lowThreshold, result.ImprovementsApplied)

	fmt.Fprintln(out, renderSegmentsTable(result.Segments))

	if result.FullText != "" {
		fmt.Fprintf(out, "\n%s\n", result.FullText)
	}
}

func renderSegmentsTable(segments []segment.Segment) string {
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			fmt.Sprintf("%d", seg.ID),
			srt.FormatTimestamp(seg.Start),
			srt.FormatTimestamp(seg.End),
			string(seg.Tier),
			formatConfidence(seg.Confidence),
			truncateText(seg.Text, 60),
		})
	}
	return renderTable(
		[]tableColumn{
			{title: "#", numeric: true},
			{title: "Start"},
			{title: "End"},
			{title: "Tier"},
			{title: "Conf", numeric: true},
			{title: "Text"},
		},
		rows,
	)
}

func reportJSON(report *pipeline.RunReport) map[string]any {
	result := report.Result
	segments := make([]map[string]any, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, map[string]any{
			"id":         seg.ID,
			"start":      seg.Start,
			"end":        seg.End,
			"text":       seg.Text,
			"confidence": seg.Confidence,
			"tier":       string(seg.Tier),
		})
	}
	return map[string]any{
		"run_id":               report.RunID,
		"media":                report.Media,
		"language":             result.Language,
		"full_text":            result.FullText,
		"aggregate_confidence": result.AggregateConfidence,
		"low_confidence_count": result.LowConfidenceCount,
		"improvements_applied": result.ImprovementsApplied,
		"elapsed_seconds":      report.Elapsed.Seconds(),
		"segments":             segments,
	}
}
