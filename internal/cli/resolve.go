package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/partres/partres/pkg/resolve"
)

// newResolveCmd creates the "resolve" command: compute the part set
// for an application on one or more targets.
func newResolveCmd() *cobra.Command {
	var (
		metadataPath string
		projectPath  string
		archs        []string
		apiLevel     int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Compute the part set for an application",
		Example: `  partres resolve -m metadata.toml -p app.toml
  partres resolve -m metadata.toml -p app.toml -t linux-64 -t win-64
  partres resolve -m metadata.toml -p app.toml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			in, err := loadInputs(metadataPath, projectPath, archs, apiLevel)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			plans, err := resolve.ResolveTargets(in.targets, in.providers, in.project.Application(), resolve.Options{Logger: logger})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %q for %d target(s)", in.project.Name, len(plans)))

			if asJSON {
				return writeJSON(cmd, planViews(plans))
			}

			out := cmd.OutOrStdout()
			for _, arch := range sortedKeys(plans) {
				plan := plans[arch]
				fmt.Fprintf(out, "%s: %d parts\n", arch, plan.Len())
				for _, p := range plan.Parts() {
					fmt.Fprintf(out, "  %s (%s)\n", p.Name, p.Kind())
				}
			}
			return nil
		},
	}

	addInputFlags(cmd, &metadataPath, &projectPath, &archs, &apiLevel)
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

// planView is the JSON shape of one resolved plan.
type planView struct {
	Application string     `json:"application"`
	Target      string     `json:"target"`
	Parts       []partView `json:"parts"`
}

type partView struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Internal   bool     `json:"internal,omitempty"`
	Deps       []string `json:"deps,omitempty"`
	HiddenDeps []string `json:"hidden_deps,omitempty"`
}

func planViews(plans map[string]*resolve.Plan) []planView {
	views := make([]planView, 0, len(plans))
	for _, arch := range sortedKeys(plans) {
		plan := plans[arch]
		view := planView{Application: plan.Application, Target: arch}
		for _, p := range plan.Parts() {
			view.Parts = append(view.Parts, partView{
				Name:       p.Name,
				Kind:       string(p.Kind()),
				Internal:   p.Internal,
				Deps:       p.Deps,
				HiddenDeps: p.HiddenDeps,
			})
		}
		views = append(views, view)
	}
	return views
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
