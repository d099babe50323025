package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abwagner/nj-affordable-housing/internal/extract"
	"github.com/abwagner/nj-affordable-housing/internal/store/sqlite"
	"github.com/abwagner/nj-affordable-housing/internal/validate"
)

var (
	extractMunicipality string
	extractSourceURL    string
	extractDocType      string
	extractSave         bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <text-file>",
	Short: "Extract commitments from pre-extracted document text",
	Long: `Extract runs the document rules over a local text file: the text of
a settlement agreement, housing element, or court filing extracted from
its PDF. The document path pulls per-category unit counts, project names,
addresses, and document type, none of which the page path attempts.

The record prints as JSON; --save also writes it to the database.

Example:
  njhousing extract cranford-settlement.txt --municipality Cranford
  njhousing extract plan.txt --municipality Westfield --source-url https://example.com/plan.pdf --save`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractMunicipality, "municipality", "", "municipality the document belongs to (required)")
	extractCmd.Flags().StringVar(&extractSourceURL, "source-url", "", "URL the document came from")
	extractCmd.Flags().StringVar(&extractDocType, "doc-type", "", "document type (detected from the text when empty)")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "store the record in the database")
	_ = extractCmd.MarkFlagRequired("municipality")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read text file: %w", err)
	}

	engine := extract.New(extract.Options{
		Mode:   extract.ModeDocument,
		Logger: log,
	})

	rec := engine.Extract(extract.Input{
		Text:               string(text),
		SourceURL:          extractSourceURL,
		Municipality:       extractMunicipality,
		SourceDocumentType: extractDocType,
	})
	if rec == nil {
		return fmt.Errorf("no affordable housing commitment found in %s", args[0])
	}

	if err := validate.NewValidator(0).Validate(rec); err != nil {
		return fmt.Errorf("extracted record invalid: %w", err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	fmt.Println(string(out))

	if !extractSave {
		return nil
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	m, err := resolveMunicipality(ctx, db, extractMunicipality, "")
	if err != nil {
		return err
	}
	inserted, err := db.InsertCommitmentIfNew(ctx, m.ID, rec)
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if !inserted {
		fmt.Fprintln(os.Stderr, "Record already stored for this municipality and source URL")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Stored commitment for %s\n", extractMunicipality)
	return nil
}
