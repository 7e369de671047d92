// fqsniff reports the compression, record format and sequence content of
// FASTA and FASTQ files by inspecting only the first megabyte of each.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vertti/fqsniff/internal/format"
	"github.com/vertti/fqsniff/internal/sample"
	"github.com/vertti/fqsniff/internal/sniff"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
)

// errInputsFailed means per-input errors were already reported.
var errInputsFailed = errors.New("one or more inputs could not be sniffed")

type config struct {
	compression format.Compression
	sampleSize  int
	workers     int
	logLevel    logrus.Level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInputsFailed) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return exitError
	}
	return exitSuccess
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "fqsniff [file ...]",
		Short: "Sniff FASTA/FASTQ files for format and content information",
		Long: `fqsniff - Sniff FASTA/FASTQ files

Reads at most the first 1,000,001 bytes of each input (gzip is detected
from the leading byte) and prints one JSON line per input describing its
format, sequence type, GC estimate and quality encoding.

With no file, or when file is -, reads standard input. Gzip input is not
supported on standard input.`,
		Example: `  fqsniff reads.fastq.gz
  fqsniff contigs.fa proteins.faa
  cat reads.fq | fqsniff
  FQSNIFF_LOG_LEVEL=debug fqsniff -w 4 *.fa`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg.logLevel)

			if len(args) == 0 {
				args = []string{"-"}
			}
			if stdinCount(args) > 1 {
				return errors.New("standard input can only be sniffed once")
			}

			return execute(cmd.Context(), cfg, args, stdout, stderr, logger)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringP("compression", "z", "auto", "input compression: auto, none or gzip")
	flags.Int("sample-size", sample.DefaultSize, "bytes sampled after the leading byte (at most 1000000)")
	flags.IntP("workers", "w", 0, "inputs sniffed in parallel (default: NumCPU)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("FQSNIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func loadConfig(v *viper.Viper) (config, error) {
	var cfg config

	c, err := format.ParseCompression(v.GetString("compression"))
	if err != nil {
		return cfg, err
	}
	cfg.compression = c

	cfg.sampleSize = v.GetInt("sample-size")
	if cfg.sampleSize < 1 || cfg.sampleSize > sample.DefaultSize {
		return cfg, fmt.Errorf("sample-size must be between 1 and %d, got %d", sample.DefaultSize, cfg.sampleSize)
	}

	cfg.workers = v.GetInt("workers")
	if cfg.workers < 0 {
		return cfg, fmt.Errorf("workers must not be negative, got %d", cfg.workers)
	}

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return cfg, err
	}
	cfg.logLevel = level

	return cfg, nil
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}

func stdinCount(paths []string) int {
	n := 0
	for _, p := range paths {
		if sample.IsStdin(p) {
			n++
		}
	}
	return n
}

func execute(ctx context.Context, cfg config, paths []string, stdout, stderr io.Writer, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"inputs":      len(paths),
		"compression": cfg.compression,
		"sample_size": cfg.sampleSize,
		"workers":     cfg.workers,
	}).Info("sniffing")

	bw := bufio.NewWriter(stdout)
	failed := false

	err := sniff.Files(ctx, paths, sniff.Options{
		Compression: cfg.compression,
		SampleSize:  cfg.sampleSize,
		Workers:     cfg.workers,
		Logger:      logger,
	}, func(r sniff.Result) error {
		if r.Err != nil {
			failed = true
			if len(paths) > 1 {
				fmt.Fprintf(stderr, "error: %s: %v\n", r.Path, r.Err)
			} else {
				fmt.Fprintf(stderr, "error: %v\n", r.Err)
			}
			return nil
		}

		line, err := r.Status.MarshalLine()
		if err != nil {
			return fmt.Errorf("encoding status for %s: %w", r.Path, err)
		}
		if _, err := bw.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	})
	if flushErr := bw.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("writing output: %w", flushErr)
	}
	if err != nil {
		return err
	}
	if failed {
		return errInputsFailed
	}
	return nil
}
