package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/orders/internal/models"
	"github.com/matthieukhl/orders/internal/store"
)

var (
	dropFirst   bool
	skipData    bool
	sampleCount int
)

var setupCmd = &cobra.Command{
	Use:   "setup-db",
	Short: "Create the orders schema and load sample data",
	Long: `Creates the orders and items tables (with the cascading foreign key
from items to orders) and populates them with sample orders.

The sample data is deterministic, so price and date lookups can be tried
against a known data set.`,
	RunE: setupDatabase,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&skipData, "schema-only", false, "Create schema only, skip sample data")
	setupCmd.Flags().IntVar(&sampleCount, "orders", 20, "Number of sample orders to create")
}

func setupDatabase(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔧 Setting up database...")

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

	if dropFirst {
		fmt.Fprintln(out, "🗑️  Dropping existing tables...")
		if err := db.DropSchema(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Fprintln(out, "📋 Creating schema...")
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if !skipData {
		fmt.Fprintln(out, "📊 Populating with sample data...")
		if err := seedSampleOrders(cmd.Context(), out, store.NewOrderStore(db.DB), sampleCount); err != nil {
			return fmt.Errorf("failed to populate sample data: %w", err)
		}
	}

	fmt.Fprintln(out, "✅ Database setup complete!")
	return nil
}

var (
	sampleNames     = []string{"Devops order", "Office supplies", "Lab equipment", "Team lunch", "Conference swag"}
	sampleAddresses = []string{
		"383 Lafayette St, New York",
		"6 MetroTech Center, Brooklyn",
		"70 Washington Square S, New York",
		"2 MetroTech Center, Brooklyn",
	}
	sampleStatuses = []string{models.StatusActive, "backordered", "shipped"}
)

// sampleOrder builds the i-th sample order with 1 to 3 items
func sampleOrder(i int) models.Order {
	order := models.Order{
		Name:        fmt.Sprintf("%s #%d", sampleNames[i%len(sampleNames)], i+1),
		Address:     sampleAddresses[i%len(sampleAddresses)],
		DateCreated: models.AsDate(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*3)),
	}

	itemCount := 1 + i%3
	for n := 0; n < itemCount; n++ {
		productID := int64((n*7+i)%15 + 100)
		order.Items = append(order.Items, models.Item{
			ProductID: productID,
			Price:     float64(productID%20) + 0.75,
			Quantity:  int64(1 + n%3),
			Status:    sampleStatuses[(i+n)%len(sampleStatuses)],
		})
	}
	return order
}

func seedSampleOrders(ctx context.Context, out io.Writer, orders *store.OrderStore, count int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	items := 0
	for i := 0; i < count; i++ {
		order := sampleOrder(i)
		if err := order.Validate(); err != nil {
			return err
		}
		if _, err := orders.Insert(ctx, &order); err != nil {
			return err
		}
		items += len(order.Items)
	}

	fmt.Fprintf(out, "   🛒 Created %d orders with %d items\n", count, items)
	return nil
}
