package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/expense-tracker/internal/domain/categorization"
	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/classifier"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/parser"
	importservice "github.com/FACorreiaa/expense-tracker/internal/domain/import/service"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/config"
	"github.com/FACorreiaa/expense-tracker/pkg/db"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

type runOptions struct {
	file       string
	currency   string
	keywords   string
	logLevel   string
	dryRun     bool
	offline    bool
	firstMatch bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the import pipeline on a file and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(opts.logLevel, cmd.ErrOrStderr())
			return runImport(cmd.Context(), opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV or XLSX file to import")
	cmd.Flags().StringVar(&opts.currency, "currency", string(money.IDR), "currency of every row (IDR or USD)")
	cmd.Flags().StringVar(&opts.keywords, "keywords", "", "YAML file with income/expense keywords")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve rows without writing to the database")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the default categories instead of the database (implies --dry-run)")
	cmd.Flags().BoolVar(&opts.firstMatch, "first-match", false, "resolve ambiguous category names to the first match")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type draftOutput struct {
	TransactionDate string          `json:"transaction_date"`
	Type            category.Type   `json:"type"`
	CategoryID      int64           `json:"category_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        money.Currency  `json:"currency"`
	Description     *string         `json:"description"`
}

type runOutput struct {
	DryRun        bool                  `json:"dry_run"`
	Imported      int                   `json:"imported"`
	Errors        []string              `json:"errors"`
	ColumnMapping sniffer.ColumnMapping `json:"column_mapping"`
	Drafts        []draftOutput         `json:"drafts,omitempty"`
}

func runImport(ctx context.Context, opts runOptions, out io.Writer, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	currency, err := money.ParseCurrency(opts.currency)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", opts.file, err)
	}
	defer f.Close()

	grid, err := parser.ReadFile(opts.file, f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.file, err)
	}

	keywords, err := classifier.LoadKeywords(opts.keywords)
	if err != nil {
		return err
	}

	var (
		categories importservice.CategoryLister
		store      importservice.TransactionStore
		dryRun     = opts.dryRun || opts.offline
		memory     = &memoryStore{}
	)

	if opts.offline {
		categories = staticCategories(category.Seed)
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		database, err := db.New(db.Config{DSN: cfg.Database.DSN(), MaxConns: 2}, log)
		if err != nil {
			return err
		}
		defer database.Close()

		categories = category.NewPostgresRepository(database.Pool)
		store = transaction.NewPostgresRepository(database.Pool)
	}
	if dryRun {
		store = memory
	}

	svc := importservice.NewImportService(categories, store, classifier.New(keywords), log)
	if opts.firstMatch {
		svc.WithResolverOptions(categorization.WithFirstMatch())
	}

	result, err := svc.ImportRows(ctx, grid, currency)
	if err != nil {
		return err
	}

	output := runOutput{
		DryRun:        dryRun,
		Imported:      result.Imported,
		Errors:        result.Errors,
		ColumnMapping: result.ColumnMapping,
	}
	for _, d := range memory.drafts {
		output.Drafts = append(output.Drafts, draftOutput(d))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
