package options

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional jlitec.yaml sitting next to a source file,
// letting a project pin default flags without every invocation repeating
// them on the command line. CLI flags always take precedence over these
// defaults -- see ApplyDefaults.
type ProjectConfig struct {
	Optimize  *bool  `yaml:"optimize"`
	Annotate  *bool  `yaml:"annotate"`
	OutputDir string `yaml:"output_dir"`

	// Registers is read from the file but not applied anywhere:
	// internal/regalloc always colors with its fixed AllocatableRegisters
	// pool.
	Registers []string `yaml:"registers"`
}

// LoadProjectConfig looks for jlitec.yaml in dir, returning a zero-value
// ProjectConfig (not an error) if the file doesn't exist -- the file is
// entirely optional.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, "jlitec.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in any Options field a ProjectConfig pins, but only
// where flagsSet reports the corresponding CLI flag was never passed --
// flags always win over the project file.
func (c *ProjectConfig) ApplyDefaults(o *Options, flagsSet map[string]bool) {
	if c.Optimize != nil && !flagsSet["optimize"] {
		o.Optimize = *c.Optimize
	}
	if c.Annotate != nil && !flagsSet["annotate"] {
		o.Annotate = *c.Annotate
	}
	if c.OutputDir != "" && !flagsSet["output-dir"] {
		o.OutputDir = c.OutputDir
	}
}
