package sgr

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Fixed directory layout relative to a scene root:
//
//	<SceneRoot>/<SceneName>.sgr
//	<SceneRoot>/Textures/
//	<SceneRoot>/Materials/
//	<SceneRoot>/Meshes/
const (
	DocumentExt  = ".sgr"
	MeshesDir    = "Meshes"
	MaterialsDir = "Materials"
	TexturesDir  = "Textures"
)

// ScenePaths resolves asset locations for one exported scene.
type ScenePaths struct {
	Root      string
	SceneName string
}

func NewScenePaths(root, sceneName string) *ScenePaths {
	return &ScenePaths{Root: root, SceneName: sceneName}
}

func (p *ScenePaths) DocumentPath() string {
	return filepath.Join(p.Root, p.SceneName+DocumentExt)
}

// MeshRel returns the scene-root-relative location of a mesh reference.
func (p *ScenePaths) MeshRel(ref string) string {
	return path.Join(MeshesDir, ref)
}

// MaterialRel returns the scene-root-relative location of a material reference.
func (p *ScenePaths) MaterialRel(ref string) string {
	return path.Join(MaterialsDir, ref)
}

func (p *ScenePaths) MeshPath(ref string) string {
	return filepath.Join(p.Root, MeshesDir, ref)
}

func (p *ScenePaths) MaterialPath(ref string) string {
	return filepath.Join(p.Root, MaterialsDir, ref)
}

func (p *ScenePaths) TexturePath(name string) string {
	return filepath.Join(p.Root, TexturesDir, name)
}

// SanitizeRefName makes an asset reference safe as a file name component.
func SanitizeRefName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

// CreateDirs creates the scene root and the fixed asset subdirectories.
func (p *ScenePaths) CreateDirs() error {
	for _, dir := range []string{MeshesDir, MaterialsDir, TexturesDir} {
		if err := os.MkdirAll(filepath.Join(p.Root, dir), 0755); err != nil {
			return pkgerrors.Wrapf(err, "sgr: create output dir %s", dir)
		}
	}
	return nil
}
