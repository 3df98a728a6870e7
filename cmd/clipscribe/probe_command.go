package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"clipscribe/internal/config"
	"clipscribe/internal/media/ffprobe"
	"clipscribe/internal/srt"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <media-file>",
		Short: "Inspect a media file's duration and streams",
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

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), mediaPath)
			if err != nil {
				return err
			}

			duration := result.DurationSeconds()
			if jsonOut {
				payload := map[string]any{
					"path":          mediaPath,
					"format":        result.Format.FormatName,
					"audio_streams": result.AudioStreamCount(),
				}
				if !math.IsNaN(duration) {
					payload["duration_seconds"] = duration
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:          %s\n", mediaPath)
			fmt.Fprintf(out, "Format:        %s\n", result.Format.FormatName)
			if math.IsNaN(duration) {
				fmt.Fprintln(out, "Duration:      unknown")
			} else {
				fmt.Fprintf(out, "Duration:      %s (%.3fs)\n", srt.FormatTimestamp(duration), duration)
			}
			fmt.Fprintf(out, "Audio streams: %d\n", result.AudioStreamCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit probe results as JSON")
	return cmd
}
