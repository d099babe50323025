package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abwagner/nj-affordable-housing/internal/store/sqlite"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [municipality]",
	Short: "List stored commitments",
	Long: `List prints the commitments recorded so far, newest first, for one
municipality or for all of them.

Example:
  njhousing list
  njhousing list Cranford`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	municipality := ""
	if len(args) == 1 {
		municipality = args[0]
	}

	commitments, err := db.ListCommitments(ctx, municipality)
	if err != nil {
		return fmt.Errorf("list commitments: %w", err)
	}
	if len(commitments) == 0 {
		fmt.Println("No commitments recorded.")
		return nil
	}

	for _, c := range commitments {
		rec := c.Record
		fmt.Printf("%s", rec.Municipality)
		if rec.CommitmentType != "" {
			fmt.Printf("  [%s]", rec.CommitmentType)
		}
		if rec.TotalUnits != nil {
			fmt.Printf("  %d units", *rec.TotalUnits)
		}
		if rec.Deadline != "" {
			fmt.Printf("  by %s", rec.Deadline)
		}
		if name := rec.FirstProjectName(); name != "" {
			fmt.Printf("  %q", name)
		}
		fmt.Printf("  (confidence %.2f)\n", rec.Confidence)
		if rec.SourceURL != "" {
			fmt.Printf("    source: %s\n", rec.SourceURL)
		}
	}
	return nil
}
