package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partres/partres/pkg/render"
	"github.com/partres/partres/pkg/resolve"
)

// newGraphCmd creates the "graph" command: render the resolved
// dependency graph of one target. The output format follows the file
// extension (.dot, .svg or .png).
func newGraphCmd() *cobra.Command {
	var (
		metadataPath string
		projectPath  string
		archs        []string
		apiLevel     int
		output       string
		detailed     bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resolved dependency graph",
		Example: `  partres graph -m metadata.toml -p app.toml -t linux-64 -o plan.svg
  partres graph -m metadata.toml -p app.toml -t linux-64 -o plan.dot --detailed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			in, err := loadInputs(metadataPath, projectPath, archs, apiLevel)
			if err != nil {
				return err
			}
			if len(in.targets) != 1 {
				return fmt.Errorf("graph renders one target at a time, got %d", len(in.targets))
			}

			session, err := resolve.New(in.targets[0], in.providers, resolve.Options{Logger: logger})
			if err != nil {
				return err
			}
			plan, err := session.Resolve(in.project.Application())
			if err != nil {
				return err
			}

			dot := render.ToDOT(plan, render.Options{Detailed: detailed})

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot":
				data = []byte(dot)
			case ".svg":
				data, err = render.RenderSVG(dot)
			case ".png":
				data, err = render.RenderPNG(dot)
			default:
				return fmt.Errorf("unsupported output format %q (use .dot, .svg or .png)", ext)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("Wrote plan graph", "path", output, "parts", plan.Len())
			return nil
		},
	}

	addInputFlags(cmd, &metadataPath, &projectPath, &archs, &apiLevel)
	cmd.Flags().StringVarP(&output, "output", "o", "plan.svg", "output file (.dot, .svg or .png)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include part kinds in node labels")
	return cmd
}
