package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partres/partres/pkg/manifest"
	"github.com/partres/partres/pkg/provider"
	"github.com/partres/partres/pkg/target"
)

// inputs bundles everything a resolution command needs: the loaded
// providers, the project, and the effective target list.
type inputs struct {
	providers []provider.Provider
	project   *manifest.Project
	targets   []target.Target
}

// loadInputs reads the metadata and project files. Architectures given
// on the command line override the project's target list; apiLevel
// applies to platforms that version their API.
func loadInputs(metadataPath, projectPath string, archs []string, apiLevel int) (*inputs, error) {
	providers, err := manifest.LoadProviders(metadataPath)
	if err != nil {
		return nil, err
	}

	project, err := manifest.LoadProject(projectPath)
	if err != nil {
		return nil, err
	}

	targets := project.Targets
	if len(archs) > 0 {
		targets = nil
		for _, arch := range archs {
			tgt, err := target.New(arch)
			if err != nil {
				return nil, err
			}
			if tgt.Platform().VersionedAPI {
				tgt.APILevel = apiLevel
			}
			targets = append(targets, tgt)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets: pass --target or declare targets in %s", projectPath)
	}

	return &inputs{providers: providers, project: project, targets: targets}, nil
}

// addInputFlags registers the flags shared by every resolution command.
func addInputFlags(cmd *cobra.Command, metadataPath, projectPath *string, archs *[]string, apiLevel *int) {
	cmd.Flags().StringVarP(metadataPath, "metadata", "m", "", "providers metadata file (TOML)")
	cmd.Flags().StringVarP(projectPath, "project", "p", "", "application project file (TOML)")
	cmd.Flags().StringSliceVarP(archs, "target", "t", nil, "target architecture (overrides the project's targets)")
	cmd.Flags().IntVar(apiLevel, "api-level", 0, "platform API level for versioned platforms")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("project")
}
