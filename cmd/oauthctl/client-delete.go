package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

// clientDeleteCmd represents the client delete command
var clientDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a registered service client",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		clientID := args[0]

		clients, err := newClientStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := clients.DeleteClient(clientID); err != nil {
			if errors.Is(err, store.ErrClientNotFound) {
				fmt.Fprintf(os.Stderr, "Client %s not found\n", clientID)
			} else {
				fmt.Fprintf(os.Stderr, "Failed to delete client: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Client deleted: %s\n", clientID)
	},
}

func init() {
	clientCmd.AddCommand(clientDeleteCmd)
}
