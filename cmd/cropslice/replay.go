package main

import (
	"encoding/json"
	"errors"
	"image"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frudas24/cropslice/internal/extract"
	"github.com/frudas24/cropslice/internal/script"
)

type replayOptions struct {
	image    string
	out      string
	format   string
	quality  int
	lossless bool
}

// newReplayCmd builds the replay subcommand, which runs a gesture script
// headlessly and prints or saves its result.
func newReplayCmd(opts *globalOptions) *cobra.Command {
	ro := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a recorded gesture script",
		Long: `Replay press, move, release, ratio, and reset steps against a fresh crop
rectangle and print the per-step trace. With --image the final region is mapped
to source pixels; with --out it is also cut out and saved.

Examples:
  cropslice replay drag.yaml
  cropslice replay drag.yaml --image photo.jpg --out crop.webp --quality 85`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if ro.out != "" && ro.image == "" {
				return errors.New("--out requires --image")
			}
			if ro.format != "yaml" && ro.format != "json" {
				return errors.New("--format must be yaml or json")
			}

			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			var src image.Image
			var natural image.Point
			if ro.image != "" {
				if src, err = extract.Open(ro.image); err != nil {
					return err
				}
				natural = src.Bounds().Size()
			}

			res, err := script.Run(s, natural, logger.With("component", "engine"))
			if err != nil {
				return err
			}
			logger.Info("replay finished", "steps", len(res.Trace), "region", res.Region)

			if ro.out != "" {
				cropped, err := extract.Crop(src, res.Region)
				if err != nil {
					return err
				}
				if err := extract.Save(cropped, ro.out, extract.Options{Quality: ro.quality, Lossless: ro.lossless}); err != nil {
					return err
				}
				logger.Info("crop saved", "path", ro.out, "size", cropped.Bounds().Size())
			}
			return writeResult(cmd, res, ro.format)
		},
	}
	cmd.Flags().StringVar(&ro.image, "image", "", "source image to map the final region onto")
	cmd.Flags().StringVar(&ro.out, "out", "", "write the cropped image here (format from extension)")
	cmd.Flags().StringVar(&ro.format, "format", "yaml", "result format (yaml, json)")
	cmd.Flags().IntVar(&ro.quality, "quality", extract.DefaultOptions().Quality, "JPEG/WebP quality (1-100)")
	cmd.Flags().BoolVar(&ro.lossless, "lossless", false, "lossless WebP output")
	return cmd
}

// writeResult prints the replay result to the command's stdout.
func writeResult(cmd *cobra.Command, res script.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("--format must be yaml or json")
	}
}
