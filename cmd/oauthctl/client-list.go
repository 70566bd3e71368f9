package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// clientListCmd represents the client list command
var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered service clients",
	Run: func(cmd *cobra.Command, args []string) {
		clients, err := newClientStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		all, err := clients.ListClients()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list clients: %v\n", err)
			os.Exit(1)
		}

		if len(all) == 0 {
			fmt.Println("No clients registered")
			return
		}

		for _, client := range all {
			fmt.Printf("%s\t%s\n", client.ClientID, client.Scopes)
		}
	},
}

func init() {
	clientCmd.AddCommand(clientListCmd)
}
