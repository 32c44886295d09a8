package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/orders/internal/server"
	"github.com/matthieukhl/orders/internal/service"
	"github.com/matthieukhl/orders/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Orders API server",
	Long: `Start the Orders API server which provides:
- CRUD endpoints for orders under /orders
- CRUD endpoints for items under /orders/{id}/items
- Lookups by date and by item price range`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🚀 Orders API Starting...")

	fmt.Fprintln(out, "📝 Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	fmt.Fprintf(out, "🔌 Connecting to %s database...\n", cfg.DB.Driver)
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(out, "✅ Database connected and migrated")

	svc := service.NewService(store.NewOrderStore(db.DB), store.NewItemStore(db.DB), log)
	srv := server.NewServer(db, svc, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(ctx, cfg.Server); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Fprintln(out, "👋 Server stopped")
	return nil
}
