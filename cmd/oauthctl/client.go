package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/db"
	storegorm "github.com/VincentAdamNemessisX/oauth-api/pkg/server/store/gorm"
)

// clientCmd represents the client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage service clients",
	Long:  `Manage the service clients allowed to use the client-credentials flow.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'client' requires a subcommand (create, list, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
}

// newClientStore wires up a ClientStore from the environment, used by the
// client subcommands.
func newClientStore() (*storegorm.ClientStore, error) {
	dataKeyB64, ok := os.LookupEnv("OAUTH_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("OAUTH_DATA_KEY environment variable is required")
	}
	dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode OAUTH_DATA_KEY: %w", err)
	}

	cipher, err := crypto.NewSymmetric(dataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	return storegorm.NewClientStore(database, cipher), nil
}
