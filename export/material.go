package export

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/nybane/sgrconv/scene"
	"github.com/nybane/sgrconv/sgr"
)

const (
	materialType        = "@gemroot:Atom_Feature_Common@/Assets/Materials/Types/StandardPBR.materialtype"
	materialTypeVersion = 5
	projectRoot         = "@projectroot@"
)

// MaterialSpec is the shading input for one material file. Texture
// names are bare file names under the scene's Textures directory.
// It doubles as the slot handle for builder input.
type MaterialSpec struct {
	Name             string
	BaseColor        [3]float64
	BaseColorTexture string
	Metallic         float64
	MetallicTexture  string
	Roughness        float64
	RoughnessTexture string
	NormalTexture    string
}

func (m *MaterialSpec) MaterialName() string {
	return sgr.SanitizeRefName(m.Name) + ".material"
}

// MaterialWriter emits StandardPBR material documents under the
// scene's Materials directory. It satisfies scene.MaterialExporter.
type MaterialWriter struct {
	Paths     *sgr.ScenePaths
	Overwrite bool
}

// ExportMaterial writes the material document for a spec handle and
// returns its name relative to Materials/. Handles of other types are
// passed through by name without writing anything.
func (w *MaterialWriter) ExportMaterial(m scene.MaterialHandle) (string, error) {
	spec, ok := m.(*MaterialSpec)
	if !ok {
		return m.MaterialName(), nil
	}
	if err := w.write(spec); err != nil {
		return "", err
	}
	return spec.MaterialName(), nil
}

func (w *MaterialWriter) texturePath(name string) string {
	return path.Join(projectRoot, w.Paths.SceneName, sgr.TexturesDir, name)
}

// write serializes the material document. Existing files are left
// alone unless Overwrite is set.
func (w *MaterialWriter) write(spec *MaterialSpec) error {
	outPath := w.Paths.MaterialPath(spec.MaterialName())
	if !w.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil
		}
	}
	props := map[string]interface{}{
		"baseColor.color":  spec.BaseColor[:],
		"metallic.factor":  spec.Metallic,
		"roughness.factor": spec.Roughness,
	}
	if spec.BaseColorTexture != "" {
		props["baseColor.textureMap"] = w.texturePath(spec.BaseColorTexture)
	}
	if spec.MetallicTexture != "" {
		props["metallic.textureMap"] = w.texturePath(spec.MetallicTexture)
		props["metallic.useTexture"] = true
	} else {
		props["metallic.useTexture"] = false
	}
	if spec.RoughnessTexture != "" {
		props["roughness.textureMap"] = w.texturePath(spec.RoughnessTexture)
		props["roughness.useTexture"] = true
	} else {
		props["roughness.useTexture"] = false
	}
	if spec.NormalTexture != "" {
		props["normal.textureMap"] = w.texturePath(spec.NormalTexture)
		props["normal.useTexture"] = true
	}
	doc := map[string]interface{}{
		"materialType":        materialType,
		"materialTypeVersion": materialTypeVersion,
		"propertyValues":      props,
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return pkgerrors.Wrapf(err, "material %s", spec.Name)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "material %s", spec.Name)
	}
	return nil
}
