package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/orders/internal/store"
)

var fixOrphans bool

var checkCmd = &cobra.Command{
	Use:   "check-orphans",
	Short: "Report items whose order no longer exists",
	Long: `Scans the items table for rows whose order_id does not reference an
existing order. Databases written before the cascading foreign key was in
place may still hold such rows.

With --fix the orphaned items are deleted.`,
	RunE: checkOrphans,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&fixOrphans, "fix", false, "Delete orphaned items")
}

func checkOrphans(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Checking for orphaned items...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	newLogger(cmd, cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return auditOrphans(cmd.Context(), out, store.NewItemStore(db.DB), fixOrphans)
}

func auditOrphans(ctx context.Context, out io.Writer, items *store.ItemStore, fix bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	orphans, err := items.FindOrphans(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan items: %w", err)
	}

	if len(orphans) == 0 {
		fmt.Fprintln(out, "✅ No orphaned items found")
		return nil
	}

	fmt.Fprintf(out, "\n📋 Found %d orphaned item%s:\n", len(orphans), pluralize(len(orphans)))
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, item := range orphans {
		fmt.Fprintf(out, "   #%d  order=%d product=%d price=%.2f qty=%d status=%s\n",
			item.ID, item.OrderID, item.ProductID, item.Price, item.Quantity, item.Status)
	}

	if !fix {
		fmt.Fprintln(out, "\n💡 Use --fix to delete them")
		return nil
	}

	removed, err := items.DeleteOrphans(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete orphaned items: %w", err)
	}
	fmt.Fprintf(out, "\n🗑️  Deleted %d orphaned item%s\n", removed, pluralize(int(removed)))
	return nil
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
