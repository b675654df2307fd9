// Command ignitekv is a standalone embedded CLI: it opens the engine
// directly against the current directory, runs exactly one operation,
// and exits — no network round trip.
package main

import (
	"fmt"
	"os"

	"github.com/ignitekv/ignitekv/pkg/ignitekv"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/spf13/cobra"
)

func openStore() (*ignitekv.Instance, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return ignitekv.Open("ignitekv", options.WithDataDir(cwd))
}

func main() {
	root := &cobra.Command{Use: "ignitekv"}

	setCmd := &cobra.Command{
		Use:  "set KEY VALUE",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Set(args[0], args[1])
		},
	}

	getCmd := &cobra.Command{
		Use:  "get KEY",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			value, found, err := store.Get(args[0])
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
		Use:  "rm KEY",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				if ignitekv.IsKeyNotFound(err) {
					fmt.Println("Key not found")
					os.Exit(1)
				}
				return err
			}
			return nil
		},
	}

	root.AddCommand(setCmd, getCmd, rmCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
