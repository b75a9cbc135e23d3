package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kolanalytics/internal/kol/loader"
	"kolanalytics/internal/kol/query"
	kolService "kolanalytics/internal/kol/service"
	kolStore "kolanalytics/internal/kol/store"
	"kolanalytics/internal/platform/logger"
)

type rootOptions struct {
	file       string
	format     string
	maxRecords int
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "kolctl",
		Short:         "Inspect a KOL dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultFile := os.Getenv("KOL_DATA_FILE")
	if defaultFile == "" {
		defaultFile = "data/mockKolData.json"
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", defaultFile, "dataset path (.json, .xlsx)")
	pf.StringVar(&opts.format, "format", string(loader.FormatAuto), "dataset format: auto, json or xlsx")
	pf.IntVar(&opts.maxRecords, "max-records", 0, "load at most this many records (0 = all)")
	pf.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log loader activity to stderr")

	root.AddCommand(
		newValidateCmd(opts),
		newStatsCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
	)
	return root
}

// loadService loads the dataset named by the root flags.
func loadService(cmd *cobra.Command, opts *rootOptions) (*kolService.Service, error) {
	format, err := loader.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	log := slog.New(slog.DiscardHandler)
	if opts.verbose {
		log = logger.New(cmd.ErrOrStderr(), slog.LevelDebug, "kolctl")
	}
	ld, err := loader.New(opts.file, format,
		loader.WithMaxRecords(opts.maxRecords),
		loader.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	records, err := ld.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.file, err)
	}
	return kolService.New(kolStore.NewInMemory(records), kolService.WithLogger(log))
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and report record count and data quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %d records loaded from %s\n", svc.Count(), opts.file)
			for _, issue := range svc.Stats(cmd.Context()).DataQualityIssues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dataset statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, svc.Stats(cmd.Context()))
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		params query.Params
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List KOLs with optional filtering, sorting and pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				params.Limit = &limit
			}
			records, err := svc.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, records)
		},
	}
	f := cmd.Flags()
	f.StringVar(&params.Country, "country", "", "exact country match")
	f.StringVar(&params.ExpertiseArea, "expertise-area", "", "exact expertise area match")
	f.StringVar(&params.Search, "search", "", "case-insensitive substring of name or affiliation")
	f.StringVar(&params.SortBy, "sort-by", "", "publications_count, citations, h_index or name")
	f.StringVar(&params.Order, "order", "", "asc or desc")
	f.IntVar(&params.Offset, "offset", 0, "records to skip")
	f.IntVar(&limit, "limit", 0, "maximum records to return")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print a single KOL by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			kol, err := svc.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, kol)
		},
	}
}
