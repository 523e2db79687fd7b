package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasAnnotateOnByDefault(t *testing.T) {
	o := New()
	assert.True(t, o.Annotate)
	assert.False(t, o.Optimize)
	assert.NotEmpty(t, o.RunID)
}

func TestIR3DumpSuffix(t *testing.T) {
	o := New()
	assert.Equal(t, "", o.IR3DumpSuffix("raw"))

	o.DumpIR3 = true
	assert.Equal(t, ".ir3", o.IR3DumpSuffix("raw"))

	o.DumpIR3Lowered = true
	assert.Equal(t, ".ir3-lowered", o.IR3DumpSuffix("lowered"))

	o.DumpIR3Opt = true
	assert.Equal(t, ".ir3-opt", o.IR3DumpSuffix("opt"))
}

func TestLoadProjectConfigMissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg.Optimize)
}

func TestLoadProjectConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	content := "optimize: true\nannotate: false\noutput_dir: build\nregisters:\n  - r4\n  - r5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jlitec.yaml"), []byte(content), 0o644))

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Optimize)
	assert.True(t, *cfg.Optimize)
	require.NotNil(t, cfg.Annotate)
	assert.False(t, *cfg.Annotate)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, []string{"r4", "r5"}, cfg.Registers)
}

func TestApplyDefaultsRespectsExplicitFlags(t *testing.T) {
	optimize := true
	cfg := &ProjectConfig{Optimize: &optimize, OutputDir: "build"}

	o := New()
	o.Optimize = false
	cfg.ApplyDefaults(o, map[string]bool{"optimize": true})
	assert.False(t, o.Optimize, "explicit -optimize=false flag must win over the project file")
	assert.Equal(t, "build", o.OutputDir, "output-dir was not set on the command line, so the file applies")
}
