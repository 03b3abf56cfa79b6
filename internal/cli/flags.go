package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/partres/partres/pkg/resolve"
)

// newFlagsCmd creates the "flags" command: print the aggregated build
// value lists for every resolved target.
func newFlagsCmd() *cobra.Command {
	var (
		metadataPath string
		projectPath  string
		archs        []string
		apiLevel     int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Print the aggregated build value lists",
		Example: `  partres flags -m metadata.toml -p app.toml -t linux-64
  partres flags -m metadata.toml -p app.toml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			in, err := loadInputs(metadataPath, projectPath, archs, apiLevel)
			if err != nil {
				return err
			}

			plans, err := resolve.ResolveTargets(in.targets, in.providers, in.project.Application(), resolve.Options{Logger: logger})
			if err != nil {
				return err
			}

			if asJSON {
				views := make(map[string]resolve.BuildFlags, len(plans))
				for arch, plan := range plans {
					views[arch] = plan.Flags()
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			for _, arch := range sortedKeys(plans) {
				flags := plans[arch].Flags()
				fmt.Fprintf(out, "%s:\n", arch)
				printList(out, "sources", flags.Sources)
				printList(out, "defines", flags.Defines)
				printList(out, "include paths", flags.IncludePaths)
				printList(out, "link flags", flags.LinkFlags)
				printList(out, "library dirs", flags.LibraryDirs)
				printList(out, "libraries", flags.Libraries)
				printList(out, "bundled libs", flags.BundledLibs)
				printList(out, "modules", flags.Modules)
				printList(out, "extensions", flags.Extensions)
			}
			return nil
		},
	}

	addInputFlags(cmd, &metadataPath, &projectPath, &archs, &apiLevel)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

func printList(out io.Writer, name string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(out, "  %s:\n", name)
	for _, v := range values {
		fmt.Fprintf(out, "    %s\n", v)
	}
}
