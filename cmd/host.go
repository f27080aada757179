package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/config"
	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
	"github.com/smazurov/logscope/internal/topology"
)

// NewHost creates a runtime whose system scope carries reg as its slog
// registry, so the process can inspect and change its own loggers.
func NewHost(reg *logging.Registry) (*host.Runtime, error) {
	rt := host.NewRuntime()
	if err := backends.InstallSlog(rt.SystemScope(), reg); err != nil {
		return nil, fmt.Errorf("install process logging: %w", err)
	}
	return rt, nil
}

// hostOptions are the settings shared by every inspection command.
type hostOptions struct {
	Config       string
	TopologyFile string `toml:"topology.file" env:"TOPOLOGY_FILE"`
}

func (o *hostOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Config, "config", "", "Path to configuration file")
	cmd.Flags().StringVarP(&o.TopologyFile, "topology-file", "t", "", "Topology file describing the host scopes")
}

// open loads the topology into a fresh runtime and returns an engine over it.
func (o *hostOptions) open(cmd *cobra.Command) (*engine.Engine, error) {
	if err := config.LoadConfig(o, cmd); err != nil {
		return nil, err
	}

	rt, err := NewHost(logging.Default())
	if err != nil {
		return nil, err
	}
	if o.TopologyFile != "" {
		spec, err := topology.Load(o.TopologyFile)
		if err != nil {
			return nil, err
		}
		if _, err := topology.Build(rt, spec); err != nil {
			return nil, err
		}
	}
	return engine.New(rt), nil
}
