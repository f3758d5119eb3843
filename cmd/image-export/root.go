package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-export/internal/server"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "image-export",
		Short: "Export image collections to PNG, TIFF or raw binary",
		Long: `image-export writes image collections to local directories, S3 buckets or
MinIO servers. Run without a subcommand it serves the export tools over MCP
(JSON-RPC on stdin/stdout).

Environment variables:
  IMAGE_EXPORT_LOG_LEVEL=debug    Override logging.level`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx, "png"))
	rootCmd.AddCommand(newExportCommand(ctx, "tiff"))
	rootCmd.AddCommand(newExportCommand(ctx, "binary"))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the export tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, ctx)
		},
	}
}

func runServer(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	log := ctx.logger(cmd)
	log.Debug("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.New(Version, cfg, log)
	return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image-export %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}
