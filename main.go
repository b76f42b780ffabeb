/*
Package main
File: main.go
Description: Server entry point. The cobra CLI exposes `serve` (boot the
economy engine, the production heartbeat and the HTTP/WebSocket API),
`validate` (check a catalog file) and `reset` (wipe the save).
*/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/everforgeworks/cosmic-conquest/internal/api"
	"github.com/everforgeworks/cosmic-conquest/internal/game"
	"github.com/everforgeworks/cosmic-conquest/internal/oracle"
	"github.com/everforgeworks/cosmic-conquest/internal/persist"
	"github.com/everforgeworks/cosmic-conquest/internal/session"
)

func main() {
	root := &cobra.Command{
		Use:   "cosmic-conquest",
		Short: "Idle-clicker economy server for Cosmic Clicker Conquest",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(resetCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadCatalog loads from the override path when given, otherwise the
// embedded default catalog.
func loadCatalog(path string) (*game.Catalog, error) {
	if path == "" {
		return game.DefaultCatalog(), nil
	}
	return game.LoadCatalog(path)
}

// openStore picks the persistence backend: Postgres when a DSN is set,
// SQLite for a db path, and a throwaway in-memory store otherwise.
func openStore(dbPath, postgresDSN string) (persist.BlobStore, error) {
	if postgresDSN != "" {
		return persist.OpenPostgres(context.Background(), postgresDSN)
	}
	if dbPath != "" {
		return persist.OpenSQLite(dbPath)
	}
	log.Println("Persistence: no --db given, running in-memory (no save)")
	return persist.NewMemoryStore(), nil
}

func serveCmd() *cobra.Command {
	var (
		addr        string
		catalogPath string
		dbPath      string
		postgresDSN string
		tick        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load the static catalog (worlds, properties, upgrades...)
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			// 2. Open the save store and restore (or start) the session.
			store, err := openStore(dbPath, postgresDSN)
			if err != nil {
				return err
			}
			defer store.Close()

			sess := session.New(catalog, store)

			// 3. Bring up the text service. A missing API key degrades the
			// session to reduced mode; the economy keeps running.
			var fetcher *oracle.Fetcher
			if svc, err := oracle.NewGeminiFromEnv(); err != nil {
				log.Printf("Oracle: %v — text enrichment disabled", err)
				sess.Dispatch(game.SetServiceStatus{Status: game.ServiceError})
			} else {
				fetcher = oracle.NewFetcher(svc, sess, 0)
				sess.Dispatch(game.SetServiceStatus{Status: game.ServiceReady})
			}

			// 4. Start the real-time hub and the production heartbeat.
			hub := api.NewHub()
			go hub.Run()

			server := api.NewServer(sess, fetcher, hub)
			sess.StartTicker(tick)
			defer sess.StopTicker()

			// 5. Hot-reload: SIGHUP refreshes the catalog without a restart.
			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGHUP)
				for {
					<-sigChan
					log.Println("SIGNAL: Reloading catalog...")
					fresh, err := loadCatalog(catalogPath)
					if err != nil {
						log.Printf("Reload failed, keeping old catalog: %v", err)
						continue
					}
					sess.ReplaceCatalog(fresh)
				}
			}()

			// 6. Serve.
			log.Printf("COSMIC CONQUEST Server live on %s", addr)
			log.Printf("Production heartbeat: every %s", tick)
			return http.ListenAndServe(addr, api.CORSMiddleware(server.Routes()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML path (default: embedded catalog)")
	cmd.Flags().StringVar(&dbPath, "db", "saves.db", "SQLite save database path (empty = in-memory)")
	cmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "Postgres DSN for the save store (overrides --db)")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "production tick interval")
	return cmd
}

func validateCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			log.Printf("Catalog OK: %d worlds, %d properties, %d upgrades, %d items, %d npcs",
				len(catalog.Worlds), len(catalog.Properties), len(catalog.Upgrades),
				len(catalog.Items), len(catalog.NPCs))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML path (default: embedded catalog)")
	return cmd
}

func resetCmd() *cobra.Command {
	var (
		dbPath      string
		postgresDSN string
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(dbPath, postgresDSN)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(persist.SaveKey); err != nil {
				return err
			}
			log.Println("Save deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "saves.db", "SQLite save database path")
	cmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "Postgres DSN for the save store (overrides --db)")
	return cmd
}
