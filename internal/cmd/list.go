package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/devboot/internal/installer"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available installers",
	Long: `List every installer in the order devboot runs them, with the name to pass
to 'devboot install' and whether it applies to this host.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// InstallerEntry describes one registered installer
type InstallerEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Applicable  bool   `json:"applicable" yaml:"applicable"`
}

// InstallerList implements ux.TextRenderer
type InstallerList []InstallerEntry

// RenderText prints an aligned table
func (l InstallerList) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION\tAPPLIES")
	for _, e := range l {
		applies := "yes"
		if !e.Applicable {
			applies = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Description, applies)
	}
	return tw.Flush()
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	probe := probeRunner(env)
	registry, err := buildRegistry(env, probe, probe)
	if err != nil {
		return err
	}

	formatter, err := env.formatter()
	if err != nil {
		return err
	}
	return formatter.Format(listInstallers(registry))
}

func listInstallers(registry *installer.Registry) InstallerList {
	tasks := registry.All()
	out := make(InstallerList, len(tasks))
	for i, t := range tasks {
		out[i] = InstallerEntry{
			Name:        installer.NameOf(t),
			Description: t.Describe(),
			Applicable:  t.IsApplicable(),
		}
	}
	return out
}
