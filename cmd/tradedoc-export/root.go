package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a3tai/tradedoc-reader/internal/config"
	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/parser"
	"github.com/a3tai/tradedoc-reader/internal/pdf"
)

// newRootCmd builds the command tree. Every persistent flag can also be set
// through a TRADEDOC_* environment variable; flags win.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "tradedoc-export",
		Short: "Extract commercial invoices and packing lists in batch",
		Long: `tradedoc-export parses commercial invoice and packing list PDFs, or JSON page
dumps of them, and writes the extracted records as JSON or as an XLSX workbook.

Arguments are files or directories. Directories are searched for .pdf and
.json sources. Relative paths are relative to --dir, and sources outside
--dir are rejected.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := logger.Setup(logger.LogConfig{
				Level:  v.GetString("loglevel"),
				Format: v.GetString("logformat"),
				Output: "stderr",
			})
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("dir", ".", "Root directory for sources")
	flags.String("type", string(document.TypeAuto), "Document type (auto, invoice, packing_list)")
	flags.String("duplicates", string(invoice.DuplicateOverwrite), "Duplicate EAN policy for invoices (overwrite, sum)")
	flags.String("query", "", "File name filter applied to directory arguments")
	flags.Int64("maxfilesize", config.DefaultMaxFileSize, "Maximum source file size in bytes")
	flags.String("loglevel", "warn", "Log level (debug, info, warn, error)")
	flags.String("logformat", config.DefaultLogFormat, "Log format (console, json)")

	for key, name := range map[string]string{
		"dir":         "dir",
		"doctype":     "type",
		"duplicates":  "duplicates",
		"query":       "query",
		"maxfilesize": "maxfilesize",
		"loglevel":    "loglevel",
		"logformat":   "logformat",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(newParseCmd(v), newExportCmd(v))
	return root
}

// runner parses the sources named on the command line.
type runner struct {
	svc     *pdf.Service
	parser  *parser.Parser
	docType document.Type
	query   string
	log     zerolog.Logger
}

func newRunner(v *viper.Viper, component string) (*runner, error) {
	dir, err := filepath.Abs(v.GetString("dir"))
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	policy, err := invoice.ParseDuplicatePolicy(v.GetString("duplicates"))
	if err != nil {
		return nil, err
	}
	t, err := document.ParseType(v.GetString("doctype"))
	if err != nil {
		return nil, err
	}
	svc, err := pdf.NewService(v.GetInt64("maxfilesize"), dir)
	if err != nil {
		return nil, err
	}

	return &runner{
		svc: svc,
		parser: parser.New(svc,
			parser.WithDuplicatePolicy(policy),
			parser.WithLogger(logger.WithComponent("parser")),
		),
		docType: t,
		query:   v.GetString("query"),
		log:     logger.WithComponent(component),
	}, nil
}

// collect expands directory arguments into the sources they hold. No
// arguments means the root directory.
func (r *runner) collect(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		resolved, err := r.svc.ResolvePath(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			// missing files are reported per source by the batch
			paths = append(paths, arg)
			continue
		}
		found, err := r.svc.SearchDirectory(pdf.SearchDirectoryRequest{Directory: resolved, Query: r.query})
		if err != nil {
			return nil, err
		}
		paths = append(paths, found.Paths()...)
	}
	if len(paths) == 0 {
		return nil, errors.New("no sources found")
	}
	return paths, nil
}

func (r *runner) parse(ctx context.Context, args []string) (*parser.BatchResult, error) {
	paths, err := r.collect(args)
	if err != nil {
		return nil, err
	}

	batch, err := r.parser.ParseBatch(ctx, paths, r.docType)
	if err != nil {
		return nil, err
	}
	for _, res := range batch.Results {
		if res.Failed() {
			r.log.Warn().Str("file", res.FilePath).Str("error", res.Error).Msg("source skipped")
		}
	}
	r.log.Info().
		Str("batch", batch.ID).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Msg("batch parsed")
	return batch, nil
}

func summary(batch *parser.BatchResult) string {
	return fmt.Sprintf("parsed %d of %d sources", batch.Succeeded, len(batch.Results))
}
