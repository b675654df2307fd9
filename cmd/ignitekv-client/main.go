// Command ignitekv-client sends one request to an ignitekv server and
// prints the result.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ignitekv/ignitekv/internal/client"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/spf13/cobra"
)

func main() {
	var addr string

	root := &cobra.Command{
		Use:   "ignitekv-client",
		Short: "Talk to an ignitekv server",
	}
	root.PersistentFlags().StringVar(&addr, "addr", options.DefaultAddr, "server IP:PORT")

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a key-value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.New(addr).Set(args[0], args[1])
		},
	}

	getCmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Retrieve the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, found, err := client.New(addr).Get(args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("Key not found")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "remove KEY",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := client.New(addr).Remove(args[0])
			if errors.Is(err, client.ErrKeyNotFound) {
				fmt.Println("Key not found")
				os.Exit(1)
			}
			return err
		},
	}

	root.AddCommand(setCmd, getCmd, rmCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
