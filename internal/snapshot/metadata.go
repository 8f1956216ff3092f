package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"repolens/internal/logging"
)

// Metadata describes the repository: what the project calls itself and
// where its working copy stands. All fields are best-effort; a repo
// without git or a recognizable manifest yields the zero values.
type Metadata struct {
	Name     string `json:"name,omitempty"`
	Manifest string `json:"manifest,omitempty"` // file the name came from
	Branch   string `json:"branch,omitempty"`
	Commit   string `json:"commit,omitempty"`
}

const metadataKey = "repo"

// Metadata collects repo metadata, served from the metadata cache while
// fresh. Collection never fails; missing sources just leave fields empty.
func (p *Provider) Metadata() Metadata {
	if cached, ok := p.meta.Get(metadataKey); ok {
		return cached
	}

	m := p.collectMetadata()
	p.meta.Set(metadataKey, m, p.metaTTL)
	return m
}

func (p *Provider) collectMetadata() Metadata {
	var m Metadata

	if repo, err := git.PlainOpen(p.root); err == nil {
		if head, err := repo.Head(); err == nil {
			m.Commit = head.Hash().String()
			if head.Name().IsBranch() {
				m.Branch = head.Name().Short()
			}
		}
	}

	m.Name, m.Manifest = p.probeManifest()
	p.log.Debug("metadata collected", logging.Fields{
		"name":   m.Name,
		"branch": m.Branch,
	})
	return m
}

// probeManifest tries the common project manifests in a fixed order and
// returns the first project name found.
func (p *Provider) probeManifest() (name, manifest string) {
	if n := p.packageJSONName(); n != "" {
		return n, "package.json"
	}
	if n := p.cargoName(); n != "" {
		return n, "Cargo.toml"
	}
	if n := p.pyprojectName(); n != "" {
		return n, "pyproject.toml"
	}
	if n := p.pubspecName(); n != "" {
		return n, "pubspec.yaml"
	}
	return "", ""
}

func (p *Provider) manifestBytes(file string) []byte {
	data, err := os.ReadFile(filepath.Join(p.root, file))
	if err != nil {
		return nil
	}
	return data
}

func (p *Provider) packageJSONName() string {
	data := p.manifestBytes("package.json")
	if data == nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

func (p *Provider) cargoName() string {
	data := p.manifestBytes("Cargo.toml")
	if data == nil {
		return ""
	}
	var cargo struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return ""
	}
	return cargo.Package.Name
}

func (p *Provider) pyprojectName() string {
	data := p.manifestBytes("pyproject.toml")
	if data == nil {
		return ""
	}
	var py struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return ""
	}
	return py.Project.Name
}

func (p *Provider) pubspecName() string {
	data := p.manifestBytes("pubspec.yaml")
	if data == nil {
		return ""
	}
	var spec struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return ""
	}
	return spec.Name
}
