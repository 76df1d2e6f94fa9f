// Package main is the entrypoint for the clog CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cronokirby/clog/internal/cli"
	"github.com/cronokirby/clog/internal/config"
	"github.com/cronokirby/clog/internal/site"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clog",
		Short: "Markdown blog generator",
		Long:  "clog turns a folder of markdown files into a static HTML site.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(buildCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "build [input] [output]",
		Short: "Build the site from a markdown folder",
		Long:  "Scans the input folder, renders every markdown page to HTML, copies static assets, and writes the configured listing pages to the output folder.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], args[1], configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to clog.toml (defaults to <input>/clog.toml)")
	return cmd
}

func runBuild(input, output, configPath string) error {
	if configPath == "" {
		configPath = filepath.Join(input, "clog.toml")
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := site.Build(cfg, input, output)
	if err != nil {
		return err
	}
	elapsed := time.Since(start).Round(time.Millisecond)

	fmt.Printf("\n%sBuilt %s%s → %s\n\n", cli.Bold, cfg.Site.Title, cli.Reset, cli.ShortenHome(output))
	fmt.Printf("  Pages:    %s\n", cli.FormatNumber(stats.Pages))
	if stats.Drafts > 0 {
		fmt.Printf("  Drafts:   %s%s skipped%s\n", cli.Dim, cli.FormatNumber(stats.Drafts), cli.Reset)
	}
	fmt.Printf("  Statics:  %s\n", cli.FormatNumber(stats.Statics))
	fmt.Printf("  Listings: %s\n", cli.FormatNumber(stats.Listings))
	fmt.Printf("\n  %sDone in %s%s\n\n", cli.Green, elapsed, cli.Reset)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clog version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("clog %s\n", Version)
			return nil
		},
	}
}
