package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Jef808/pyextract/internal/config"
	"github.com/Jef808/pyextract/internal/extractor"
	"github.com/Jef808/pyextract/internal/parser"
	"github.com/Jef808/pyextract/internal/scanner"
	"github.com/Jef808/pyextract/internal/worker"
)

func extractCmd() *cobra.Command {
	var (
		fromStdin bool
		gitOnly   bool
		workers   int
		output    string
		compact   bool
		include   []string
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract definitions from Python files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			project, err := config.LoadProjectConfig(".")
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			project.Merge(&config.ProjectConfig{
				Include: include,
				Exclude: exclude,
				GitOnly: gitOnly,
				Workers: workers,
				Compact: compact,
			})

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if fromStdin {
				return extractStdin(ctx, out, project.Compact)
			}

			if len(args) == 0 {
				return fmt.Errorf("no paths given (or use --stdin)")
			}

			opts := scanner.Options{Include: project.Include, Exclude: project.Exclude}
			var files []string
			for _, arg := range args {
				var found []string
				var err error
				if project.GitOnly {
					found, err = scanner.GitFiles(arg, opts)
				} else {
					found, err = scanner.Scan(arg, opts)
				}
				if err != nil {
					// IO failures skip the path, not the batch
					log.Error().Err(err).Str("path", arg).Msg("failed to scan path")
					continue
				}
				files = append(files, found...)
			}

			if len(files) == 0 {
				return fmt.Errorf("no Python files found")
			}

			poolSize := project.Workers
			if poolSize == 0 {
				poolSize = cfg.Workers
			}

			results := worker.NewPool(poolSize).Run(ctx, files)

			failed := 0
			for _, res := range results {
				if res.Failed() {
					failed++
					continue
				}
				if err := emitModule(out, res.Module, project.Compact); err != nil {
					return err
				}
			}

			if failed == len(results) {
				return fmt.Errorf("all %d files failed to extract", failed)
			}
			if failed > 0 {
				log.Warn().Int("failed", failed).Int("total", len(results)).Msg("some files failed to extract")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read a single Python source from stdin")
	cmd.Flags().BoolVar(&gitOnly, "git", false, "Only process files tracked by git at HEAD")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel workers (default: CPU count)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write JSON to file instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON instead of indented")
	cmd.Flags().StringArrayVar(&include, "include", nil, "Glob patterns files must match")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob patterns to skip")

	return cmd
}

// extractStdin handles the single-source path: read everything, parse,
// extract, emit one record.
func extractStdin(ctx context.Context, out io.Writer, compact bool) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	tree, err := parser.NewParser().Parse(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to parse stdin: %w", err)
	}
	defer tree.Close()

	return emitModule(out, extractor.Extract(tree), compact)
}

// emitModule writes one module record as JSON followed by a newline.
func emitModule(out io.Writer, mod *extractor.Module, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(mod)
	} else {
		data, err = json.MarshalIndent(mod, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
