// Command ignitekv-server runs the network front end over a chosen
// storage backend.
package main

import (
	"fmt"
	"os"

	"github.com/ignitekv/ignitekv/internal/boltengine"
	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/ignitekv/ignitekv/internal/kvengine"
	"github.com/ignitekv/ignitekv/internal/server"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/spf13/cobra"
)

func main() {
	var addr string
	var engineName string
	var dataDir string

	root := &cobra.Command{
		Use:   "ignitekv-server",
		Short: "Run the ignitekv network server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, engineName, dataDir)
		},
	}

	root.Flags().StringVar(&addr, "addr", options.DefaultAddr, "IP:PORT to listen on")
	root.Flags().StringVar(&engineName, "engine", "", "storage engine: kvs or alt (default: whatever this data directory was opened with, else kvs)")
	root.Flags().StringVar(&dataDir, "data-dir", options.DefaultDataDir, "directory holding segment files")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, requested, dataDir string) error {
	log := logger.New("ignitekv-server")
	defer log.Sync()

	chosen, err := engine.Resolve(dataDir, cliNameToEngine(requested))
	if err != nil {
		return err
	}

	var eng engine.Engine
	switch chosen {
	case engine.Bitcask:
		eng, err = kvengine.Open(&kvengine.Config{
			Options: optionsFor(dataDir, addr),
			Logger:  log,
		})
	case engine.Bolt:
		eng, err = boltengine.Open(dataDir + "/ignitekv.bolt")
	}
	if err != nil {
		return err
	}
	defer eng.Close()

	log.Infow("engine selected", "engine", chosen, "dataDir", dataDir)
	return server.New(addr, eng, log).ListenAndServe()
}

func optionsFor(dataDir, addr string) *options.Options {
	opts := options.NewDefaultOptions()
	options.WithDataDir(dataDir)(&opts)
	options.WithAddr(addr)(&opts)
	return &opts
}

// cliNameToEngine maps the --engine flag's CLI vocabulary (kvs/alt) onto
// the engine package's internal names (bitcask/bolt).
func cliNameToEngine(name string) engine.Name {
	switch name {
	case "kvs":
		return engine.Bitcask
	case "alt":
		return engine.Bolt
	default:
		return ""
	}
}
