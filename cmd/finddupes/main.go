package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/soyunomas/finddupes/internal/config"
	"github.com/soyunomas/finddupes/internal/engine"
	"github.com/soyunomas/finddupes/internal/report"
)

func main() {
	cmd := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "finddupes [flags] DIR...",
		Short: "Find duplicate files using their hashes",
		Long: `Finds duplicate files in one or more directory trees:
  - Groups files by size (fast pre-filter)
  - Hashes same-size files (xxh3 by default, md5 with --md5)
  - Compares same-hash files byte by byte

With --delete the first file of every group is kept and the rest are
removed. "First" is traversal order unless --keep says otherwise.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args, fs, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cfg.RegisterFlags(cmd.Flags())
	return cmd
}

// run ejecuta el pipeline completo y sólo después el borrado.
func run(cfg *config.Config, dirs []string, fs afero.Fs, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := cfg.NewLogger(stderr)

	alg, err := cfg.Algorithm(log)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(alg)
	if err != nil {
		return err
	}
	log.Debugf("options: %s", opts)

	stats, err := engine.New(fs, opts, log).Run(dirs)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	rep := report.New(stdout, fs, log)
	rep.Traversed(stats.Scan.Traversed)
	if cfg.Verbose > 0 {
		rep.Skipped(stats.Scan, opts.Scan.MinSize, opts.Scan.MaxSize)
	}
	del := rep.Groups(stats.Groups, cfg.Delete)

	if cfg.Verbose > 0 {
		rep.Summary(stats, del)
	}

	if del != nil && del.Err != nil {
		return fmt.Errorf("%d file(s) could not be removed: %w", del.Failed, del.Err)
	}
	return nil
}
