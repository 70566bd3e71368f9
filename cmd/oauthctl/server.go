package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/db"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/endpoints"
	storegorm "github.com/VincentAdamNemessisX/oauth-api/pkg/server/store/gorm"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the OAuth API server",
	Long: `Run the OAuth API server

To run the server requires the environment variables OAUTH_DATA_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		dataKeyB64, ok := os.LookupEnv("OAUTH_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "OAUTH_DATA_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Println("Bad OAUTH_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := crypto.NewSymmetric(dataKey)
		if err != nil {
			fmt.Println("Unable to initiate cipher:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		providers := map[provider.Kind]provider.Provider{
			provider.KindGithub: provider.NewGithub(cfg),
			provider.KindQQ:     provider.NewQQ(cfg),
		}

		stores := server.Stores{
			Users:   storegorm.NewUserStore(database),
			Clients: storegorm.NewClientStore(database, cipher),
			Health:  storegorm.NewHealthStore(database),
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, stores, providers, host, port)

		endpoints.RegisterAll(s)

		go watchConfigFile(cfg.ConfigFilePath())

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

// watchConfigFile revalidates the config file whenever it changes. Token
// lifetimes and provider credentials captured at startup still require a
// restart, matching how environment changes behave.
func watchConfigFile(path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Config watch disabled: %v", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		// Missing config file is fine; everything came from env.
		return
	}
	log.Printf("Watching %s for configuration changes", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := config.Reload(); err != nil {
				log.Printf("Config reload failed: %v", err)
				continue
			}
			if err := config.Get().Validate(); err != nil {
				log.Printf("Reloaded config is invalid: %v", err)
				continue
			}
			log.Println("Configuration file changed; restart the server to apply it")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watch error: %v", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
