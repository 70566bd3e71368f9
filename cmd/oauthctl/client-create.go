package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// clientCreateCmd represents the client create command
var clientCreateCmd = &cobra.Command{
	Use:   "create <client-id>",
	Short: "Register a service client",
	Long: `Register a service client for the client-credentials flow.

The generated client secret is printed once and never shown again.

Example:
  oauthctl client create my-service
  oauthctl client create my-service --scopes read:service_data`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		clientID := args[0]
		scopesFlag, _ := cmd.Flags().GetString("scopes")

		var scopes []string
		if scopesFlag != "" {
			scopes = strings.Fields(scopesFlag)
		}

		clients, err := newClientStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		secret, err := clients.CreateClient(clientID, scopes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Client created: %s\n", clientID)
		fmt.Printf("Client secret: %s\n", secret)
		fmt.Println("Store this secret now. It cannot be retrieved later.")
	},
}

func init() {
	clientCmd.AddCommand(clientCreateCmd)
	clientCreateCmd.Flags().String("scopes", "", "space-separated scopes to grant (defaults to read:service_data write:service_log)")
}
