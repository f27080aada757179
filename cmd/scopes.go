package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smazurov/logscope/internal/engine"
)

// CreateScopesCmd creates the scopes command.
func CreateScopesCmd() *cobra.Command {
	var opts hostOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:          "scopes",
		Short:        "List host scopes and the logging frameworks found in them",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return runScopes(cmd.OutOrStdout(), e, asJSON)
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func runScopes(out io.Writer, e *engine.Engine, asJSON bool) error {
	scopes := e.Scopes()
	if asJSON {
		return writeJSON(out, scopes)
	}

	t := newTable("HASH", "NAME", "PARENT", "FRAMEWORKS", "TYPES")
	for _, s := range scopes {
		t.Row(s.Hash, s.Name, s.ParentHash, strings.Join(s.Frameworks, ","), strconv.Itoa(s.Types))
	}
	fmt.Fprintln(out, t.String())
	return nil
}
