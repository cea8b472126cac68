// Package cli holds helpers shared by the federation and federationd binaries.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const helpJSONFlag = "help-json"

// FlagSchema describes one flag in machine-readable help.
type FlagSchema struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
	Inherited   bool   `json:"inherited,omitempty"`
}

// CommandSchema describes a command tree in machine-readable help.
type CommandSchema struct {
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	Use         string          `json:"use,omitempty"`
	Description string          `json:"description,omitempty"`
	Long        string          `json:"long,omitempty"`
	Runnable    bool            `json:"runnable"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

// GenerateSchema walks cmd and its visible subcommands.
func GenerateSchema(cmd *cobra.Command) CommandSchema {
	schema := CommandSchema{
		Name:        cmd.Name(),
		Path:        cmd.CommandPath(),
		Use:         cmd.Use,
		Description: cmd.Short,
		Long:        cmd.Long,
		Runnable:    cmd.Runnable(),
		Flags:       extractFlags(cmd),
	}

	for _, sub := range cmd.Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" || sub.Hidden {
			continue
		}
		schema.Subcommands = append(schema.Subcommands, GenerateSchema(sub))
	}

	return schema
}

func extractFlags(cmd *cobra.Command) []FlagSchema {
	var flags []FlagSchema

	visit := func(inherited bool) func(*pflag.Flag) {
		return func(f *pflag.Flag) {
			if f.Name == helpJSONFlag || f.Name == "help" || f.Hidden {
				return
			}
			flags = append(flags, FlagSchema{
				Name:        f.Name,
				Shorthand:   f.Shorthand,
				Type:        f.Value.Type(),
				Default:     f.DefValue,
				Description: f.Usage,
				Inherited:   inherited,
			})
		}
	}
	cmd.LocalFlags().VisitAll(visit(false))
	cmd.InheritedFlags().VisitAll(visit(true))

	sort.SliceStable(flags, func(i, j int) bool {
		if flags[i].Inherited != flags[j].Inherited {
			return !flags[i].Inherited
		}
		return flags[i].Name < flags[j].Name
	})
	return flags
}

// PrintSchema writes the schema of cmd as indented JSON.
func PrintSchema(w io.Writer, cmd *cobra.Command) error {
	output, err := json.MarshalIndent(GenerateSchema(cmd), "", "  ")
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// AddHelpJSONFlag adds the --help-json flag to a command.
func AddHelpJSONFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(helpJSONFlag, false, "Output command schema as JSON")
}

// CheckHelpJSON prints the schema of the command addressed by args when
// args contain --help-json. It runs before Execute so positional argument
// validation does not reject the request. The bool reports whether it
// handled the invocation.
func CheckHelpJSON(rootCmd *cobra.Command, args []string, w io.Writer) (bool, error) {
	for i, arg := range args {
		if arg == "--"+helpJSONFlag {
			return true, PrintSchema(w, findTargetCommand(rootCmd, args[:i]))
		}
	}
	return false, nil
}

func findTargetCommand(cmd *cobra.Command, args []string) *cobra.Command {
	if len(args) == 0 {
		return cmd
	}

	for _, sub := range cmd.Commands() {
		if sub.Name() == args[0] || sub.HasAlias(args[0]) {
			return findTargetCommand(sub, args[1:])
		}
	}

	// Flags and positional values before --help-json do not change the target.
	return findTargetCommand(cmd, args[1:])
}
