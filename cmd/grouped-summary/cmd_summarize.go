package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"olttstats/internal/dataprocessing"
	"olttstats/internal/errors"
	"olttstats/internal/files"
	"olttstats/internal/infrastructure"
	"olttstats/internal/operations"
	"olttstats/internal/validation"
)

// summarizeOptions are the flags of the summarize command
type summarizeOptions struct {
	*rootOptions
	freeRecall  string
	cuedRecall  string
	recognition string
	out         string
	overwrite   bool
}

func newSummarizeCmd(root *rootOptions) *cobra.Command {
	opts := &summarizeOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Build the summary workbook of one participant from local files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.freeRecall, "free-recall", "", "Free recall CSV export")
	cmd.Flags().StringVar(&opts.cuedRecall, "cued-recall", "", "Cued recall CSV export")
	cmd.Flags().StringVar(&opts.recognition, "recognition", "", "Recognition CSV export")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output XLSX file")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace the output file if it exists")
	for _, name := range []string{"free-recall", "cued-recall", "recognition", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (o *summarizeOptions) run(cmd *cobra.Command) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	set, err := cfg.Stimuli.CategorySet()
	if err != nil {
		return errors.NewConfigError("invalid stimulus categories", err)
	}

	cleanup, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := infrastructure.GetLogger()

	paths := map[files.Role]string{
		files.RoleFreeRecall:  o.freeRecall,
		files.RoleCuedRecall:  o.cuedRecall,
		files.RoleRecognition: o.recognition,
	}

	validator := validation.NewFileValidator(logger)
	for _, role := range files.RawRoles {
		if err := validator.ValidateCSVFile(paths[role]); err != nil {
			return fmt.Errorf("%s: %w", role, err)
		}
	}
	if err := validator.ValidateOutputFile(o.out, o.overwrite); err != nil {
		return err
	}
	summarizer := operations.NewSummarizer(dataprocessing.NewParser(cfg.Processing.SkipRows, logger), set)
	output, err := summarizer.Summarize(func(role files.Role) (io.ReadCloser, error) {
		f, err := os.Open(paths[role])
		if err != nil {
			return nil, errors.NewStorageError("open "+paths[role], err)
		}
		return f, nil
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(o.out, output.Workbook, 0644); err != nil {
		return errors.NewStorageError("write "+o.out, err)
	}

	logger.Info("workbook written",
		slog.String("file", o.out),
		slog.Int("bytes", len(output.Workbook)),
		slog.Any("rows_dropped", output.Dropped()))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.out)
	return nil
}
