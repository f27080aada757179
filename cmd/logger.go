package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/smazurov/logscope/internal/engine"
)

// ErrLevelUpdateFailed is returned when no framework accepted a level.
var ErrLevelUpdateFailed = errors.New(engine.MsgLevelUpdateFailed)

type loggerOptions struct {
	hostOptions
	hash              string
	scopeType         string
	name              string
	level             string
	includeNoAppender bool
	json              bool
}

// CreateLoggerCmd creates the logger command.
func CreateLoggerCmd() *cobra.Command {
	var opts loggerOptions

	cmd := &cobra.Command{
		Use:   "logger",
		Short: "List loggers or change a logger level",
		Long: `Lists the loggers of every logging framework found in the host scopes, ` +
			`or assigns a level to a logger when --name and --level are given. ` +
			`Level updates go to the system scope unless -c or --scope-type names another one.`,
		Example: `  logscope logger -t topology.toml
  logscope logger -t topology.toml --scope-type billing.Invoice -n db
  logscope logger -t topology.toml -c 1b6d3586 -n ROOT -l debug`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return runLogger(cmd.OutOrStdout(), e, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.hash, "scope", "c", "", "Identity hash of the target scope")
	cmd.Flags().StringVar(&opts.scopeType, "scope-type", "", "Type name identifying the target scope")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Logger name")
	cmd.Flags().StringVarP(&opts.level, "level", "l", "", "Level to assign")
	cmd.Flags().BoolVar(&opts.includeNoAppender, "include-no-appender", false, "Include loggers without any appender")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON")
	return cmd
}

func runLogger(out io.Writer, e *engine.Engine, opts loggerOptions) error {
	scope, err := e.ResolveTargetScope(engine.Target{Hash: opts.hash, TypeName: opts.scopeType})
	if err != nil {
		return reportResolution(out, err)
	}

	if opts.level != "" {
		if opts.name == "" {
			return errors.New("--level needs --name")
		}
		if !e.SetLevelAcrossFrameworks(scope, opts.name, opts.level) {
			return ErrLevelUpdateFailed
		}
		fmt.Fprintln(out, engine.MsgLevelUpdated)
		return nil
	}

	records := e.ListLoggersAcrossScopes(engine.ListOptions{
		Scope:             scope,
		Name:              opts.name,
		IncludeNoAppender: opts.includeNoAppender,
	})
	if opts.json {
		return writeJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No loggers found.")
		return nil
	}
	fmt.Fprintln(out, renderLoggers(records))
	return nil
}

// reportResolution prints the candidates of an ambiguous target.
func reportResolution(out io.Writer, err error) error {
	var resErr *engine.ResolutionError
	if !errors.As(err, &resErr) || !errors.Is(err, engine.ErrScopeAmbiguous) {
		return err
	}

	fmt.Fprintln(out, engine.AmbiguousMessage(resErr.Target.TypeName))
	t := newTable("HASH", "SCOPE")
	for _, s := range resErr.Candidates {
		t.Row(s.Hash(), s.String())
	}
	fmt.Fprintln(out, t.String())
	return err
}

func renderLoggers(records []engine.LoggerRecord) string {
	t := newTable("SCOPE", "FRAMEWORK", "NAME", "LEVEL", "EFFECTIVE", "ADDITIVE", "APPENDERS")
	for _, r := range records {
		appenders := make([]string, 0, len(r.Appenders))
		for _, a := range r.Appenders {
			if a.Target != "" {
				appenders = append(appenders, a.Name+"->"+a.Target)
			} else {
				appenders = append(appenders, a.Name)
			}
		}
		t.Row(r.Scope, r.Framework, r.Name, r.Level, r.EffectiveLevel,
			strconv.FormatBool(r.Additive), strings.Join(appenders, ", "))
	}
	return t.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
