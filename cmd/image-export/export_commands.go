package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-export/internal/export"
	"github.com/ironsheep/image-export/internal/imaging"
	"github.com/ironsheep/image-export/internal/ndimage"
	"github.com/ironsheep/image-export/internal/server"
)

type exportFlags struct {
	prefix       string
	overwrite    bool
	parallelism  int
	fromBinary   string
	sourcePrefix string
	compression  string
}

// newExportCommand builds the png, tiff and binary subcommands.
func newExportCommand(ctx *commandContext, format string) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   format + " DESTINATION [SOURCE...]",
		Short: exportShort(format),
		Long: `Writes image k as {prefix}-{k:05d}.{ext} under DESTINATION, a directory or
an s3://bucket/prefix, minio://host/bucket/prefix or mem://name URI. Images come
from the SOURCE files (key = argument position) or from --from-binary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ctx, format, args[0], args[1:], flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.prefix, "prefix", "", "Filename prefix (default from configuration)")
	f.BoolVar(&flags.overwrite, "overwrite", false, "Replace existing files at the destination")
	f.IntVarP(&flags.parallelism, "parallelism", "p", 0, "Images encoded and written at once (default from configuration)")
	f.StringVar(&flags.fromBinary, "from-binary", "", "Read images from a completed binary export instead of SOURCE files")
	f.StringVar(&flags.sourcePrefix, "source-prefix", "", "Filename prefix of the images in --from-binary")
	if format == "tiff" {
		f.StringVar(&flags.compression, "compression", "", "TIFF compression: none or deflate (default from configuration)")
	}
	return cmd
}

func exportShort(format string) string {
	switch format {
	case "png":
		return "Export images as PNG files"
	case "tiff":
		return "Export images as TIFF files"
	default:
		return "Export raw image data with a conf.json manifest"
	}
}

func runExport(cmd *cobra.Command, ctx *commandContext, format, dest string, sources []string, flags exportFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.ExportOptions(ctx.logger(cmd))
	if err != nil {
		return err
	}
	if flags.prefix != "" {
		if err := export.ValidatePrefix(flags.prefix); err != nil {
			return err
		}
		opts.Prefix = flags.prefix
	}
	if cmd.Flags().Changed("overwrite") {
		opts.Overwrite = flags.overwrite
	}
	if flags.compression != "" {
		if opts.TIFFCompression, err = export.ParseTIFFCompression(flags.compression); err != nil {
			return err
		}
	}
	parallelism := flags.parallelism
	if parallelism < 1 {
		parallelism = cfg.Export.Parallelism
	}

	var c *ndimage.Collection
	switch {
	case flags.fromBinary != "" && len(sources) > 0:
		return errors.New("--from-binary cannot be combined with SOURCE files")
	case flags.fromBinary != "":
		c, err = export.ReadBinary(cmd.Context(), flags.fromBinary, export.ReadOptions{
			Prefix:      flags.sourcePrefix,
			Credentials: opts.Credentials,
			Parallelism: parallelism,
		})
	case len(sources) > 0:
		c, err = imaging.LoadCollection(imaging.NewImageCache(), sources, ndimage.WithParallelism(parallelism))
	default:
		return errors.New("no images: give SOURCE files or --from-binary")
	}
	if err != nil {
		return err
	}

	switch format {
	case "png":
		err = export.ToPNG(cmd.Context(), c, dest, opts)
	case "tiff":
		err = export.ToTIFF(cmd.Context(), c, dest, opts)
	default:
		err = export.ToBinary(cmd.Context(), c, dest, opts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d images (%v %s) to %s\n", c.Len(), c.Dims(), c.DType(), dest)
	return nil
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	var (
		dims      []int
		dtype     string
		name      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "config DESTINATION",
		Short: "Write a binary export manifest and the SUCCESS marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dt, err := ndimage.ParseDType(dtype)
			if err != nil {
				return err
			}
			err = export.WriteConfig(cmd.Context(), args[0], dims, dt.String(), export.ConfigOptions{
				Name:        name,
				Overwrite:   overwrite,
				Credentials: cfg.Storage.Credentials(),
				Logger:      ctx.logger(cmd),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote manifest to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&dims, "dims", nil, "Per-image dimensions, e.g. 512,512")
	cmd.Flags().StringVar(&dtype, "dtype", "", "Element type, e.g. uint8, int16, float32")
	cmd.Flags().StringVar(&name, "name", export.DefaultConfigName, "Manifest filename")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "Replace an existing manifest and marker")
	_ = cmd.MarkFlagRequired("dtype")
	return cmd
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "inspect SOURCE",
		Short: "Describe a completed binary export as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := export.ReadBinary(cmd.Context(), args[0], export.ReadOptions{
				Prefix:      prefix,
				Credentials: cfg.Storage.Credentials(),
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(server.Describe(args[0], c))
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Filename prefix of the images (default image)")
	return cmd
}
