package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/partres/partres/pkg/errors"
	"github.com/partres/partres/pkg/resolve"
	"github.com/partres/partres/pkg/target"
)

// Project is a loaded application project: the roots to resolve and
// the targets to resolve them for.
type Project struct {
	// Name is the application name.
	Name string

	// Parts are the application's requested root names.
	Parts []string

	// Targets are the targets to resolve for, with the project's API
	// level applied to platforms that version their API.
	Targets []target.Target
}

// Application returns the resolver's view of the project.
func (p *Project) Application() resolve.Application {
	return resolve.Application{Name: p.Name, Parts: p.Parts}
}

type projectFile struct {
	Application struct {
		Name     string   `toml:"name"`
		Parts    []string `toml:"parts"`
		Targets  []string `toml:"targets"`
		APILevel int      `toml:"api-level"`
	} `toml:"application"`
}

// LoadProject reads an application project file. Declared target
// names are validated here so a typo fails before any resolution
// starts.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	var file projectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	app := file.Application
	if app.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s declares no application name", path)
	}

	p := &Project{Name: app.Name, Parts: app.Parts}
	for _, name := range app.Targets {
		tgt, err := target.New(name)
		if err != nil {
			return nil, err
		}
		if tgt.Platform().VersionedAPI {
			tgt.APILevel = app.APILevel
		}
		p.Targets = append(p.Targets, tgt)
	}
	return p, nil
}
