package export

import (
	"io"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/nybane/sgrconv/sgr"
)

// Settings controls an export run. Zero values fall back to sensible
// defaults via ApplyDefaults, so a partial YAML file is fine.
type Settings struct {
	SceneName string `yaml:"sceneName"`
	OutputDir string `yaml:"outputDir"`

	OverwriteSceneGraph bool `yaml:"overwriteSceneGraph"`
	OverwriteMaterials  bool `yaml:"overwriteMaterials"`
	OverwriteTextures   bool `yaml:"overwriteTextures"`

	// TextureSizeLimit caps the longest edge of exported textures.
	// Zero means no limit.
	TextureSizeLimit int `yaml:"textureSizeLimit"`
}

func DefaultSettings() *Settings {
	return &Settings{
		SceneName:           "Scene",
		OutputDir:           ".",
		OverwriteSceneGraph: true,
	}
}

func (s *Settings) ApplyDefaults() {
	if s.SceneName == "" {
		s.SceneName = "Scene"
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
}

// Paths returns the scene directory layout for these settings. The scene
// gets its own directory under the output root.
func (s *Settings) Paths() *sgr.ScenePaths {
	return sgr.NewScenePaths(filepath.Join(s.OutputDir, s.SceneName), s.SceneName)
}

func ParseSettings(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	return &s, nil
}

func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "settings %s", path)
	}
	defer f.Close()
	s, err := ParseSettings(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "settings %s", path)
	}
	return s, nil
}
