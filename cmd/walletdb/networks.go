// Networks command group manages network records and selection.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List networks and switch the selected one",
	Long: `Networks lists the configured networks and changes which one is
selected. Exactly one network is selected at a time.

Example:
  walletdb networks list
  walletdb networks select 0198a7f2-...`,
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured networks",
	Args:  cobra.NoArgs,
	RunE:  runNetworksList,
}

var networksSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a network by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetworksSelect,
}

func init() {
	networksCmd.AddCommand(networksListCmd)
	networksCmd.AddCommand(networksSelectCmd)
}

func runNetworksList(cmd *cobra.Command, args []string) error {
	networks, err := store.Networks()
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}

	if flagJSON {
		return printJSON(networks)
	}

	for _, n := range networks {
		marker := " "
		if n.IsSelected {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, n.ID, n.Name, n.URL)
	}
	return nil
}

func runNetworksSelect(cmd *cobra.Command, args []string) error {
	if err := store.SelectNetwork(args[0]); err != nil {
		return fmt.Errorf("select network: %w", err)
	}

	selected, err := store.SelectedNetwork()
	if err != nil {
		return fmt.Errorf("read selected network: %w", err)
	}
	fmt.Printf("selected %s (%s)\n", selected.Name, selected.URL)
	return nil
}
