package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/urfave/cli"

	"github.com/nybane/sgrconv/converter"
	"github.com/nybane/sgrconv/engine"
	"github.com/nybane/sgrconv/export"
	"github.com/nybane/sgrconv/sgr"
	"github.com/nybane/sgrconv/texture"
)

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func exportScene(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.NewExitError("export: input file required", 1)
	}
	input := ctx.Args().Get(0)

	settings := export.DefaultSettings()
	if path := ctx.String("settings"); path != "" {
		var err error
		settings, err = export.LoadSettings(path)
		if err != nil {
			return err
		}
	} else {
		settings.SceneName = baseName(input)
	}
	if name := ctx.String("scene"); name != "" {
		settings.SceneName = name
	}

	doc, err := gltf.Open(input)
	if err != nil {
		return fmt.Errorf("export %s: %w", input, err)
	}
	conv := converter.NewGLTFToSGRConverter(&converter.GLTFToSGROption{SceneName: settings.SceneName})
	root, err := conv.Convert(doc)
	if err != nil {
		return err
	}

	output := ctx.Args().Get(1)
	if output == "" {
		paths := settings.Paths()
		if err := paths.CreateDirs(); err != nil {
			return err
		}
		output = paths.DocumentPath()
		if err := writeMaterials(doc, settings); err != nil {
			return err
		}
		if ctx.Bool("textures") {
			if err := writeTextures(doc, settings, filepath.Dir(input)); err != nil {
				return err
			}
		}
	}
	if err := sgr.Save(root, output); err != nil {
		return err
	}
	logger.Infof("wrote %s (%d nodes)", output, root.Count())
	return nil
}

// writeMaterials emits one material file per glTF material so the
// document's slot references resolve inside the scene directory.
func writeMaterials(doc *gltf.Document, settings *export.Settings) error {
	w := &export.MaterialWriter{Paths: settings.Paths(), Overwrite: settings.OverwriteMaterials}
	for _, m := range doc.Materials {
		if m.Name == "" {
			continue
		}
		spec := &export.MaterialSpec{Name: m.Name, BaseColor: [3]float64{1, 1, 1}, Roughness: 1}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			col := pbr.BaseColorFactorOrDefault()
			spec.BaseColor = [3]float64{float64(col[0]), float64(col[1]), float64(col[2])}
			spec.Metallic = float64(pbr.MetallicFactorOrDefault())
			spec.Roughness = float64(pbr.RoughnessFactorOrDefault())
		}
		if _, err := w.ExportMaterial(spec); err != nil {
			return err
		}
	}
	return nil
}

// writeTextures converts externally referenced glTF images into PNGs under
// Textures/. Embedded (buffer view or data URI) images are skipped.
func writeTextures(doc *gltf.Document, settings *export.Settings, srcDir string) error {
	paths := settings.Paths()
	exp := &texture.Exporter{
		OutDir:          paths.TexturePath(""),
		Overwrite:       settings.OverwriteTextures,
		ResolutionLimit: settings.TextureSizeLimit,
	}
	for _, img := range doc.Images {
		if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
			continue
		}
		asset := texture.NewAsset(filepath.Base(img.URI), filepath.Join(srcDir, filepath.FromSlash(img.URI)))
		names, err := exp.Export(asset)
		if err != nil {
			return err
		}
		for _, name := range names {
			logger.Debugf("texture %s", name)
		}
	}
	return nil
}

func importScene(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("import: document path required", 1)
	}
	input := ctx.Args().Get(0)

	root, err := sgr.Load(input)
	if err != nil {
		return err
	}
	editor := engine.NewEditorScene()
	imp := engine.NewSceneImporter(editor, &engine.DirCatalog{Root: filepath.Dir(input)})
	imp.Strict = ctx.Bool("strict")
	res, err := imp.Import(root)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warning(w)
	}
	logger.Infof("created %d entities", res.Created)
	editor.Dump(os.Stdout)
	return nil
}

func previewScene(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.NewExitError("preview: document path required", 1)
	}
	input := ctx.Args().Get(0)
	output := ctx.Args().Get(1)
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".glb"
	}

	root, err := sgr.Load(input)
	if err != nil {
		return err
	}
	conv := converter.NewSGRToGLTFConverter(&converter.SGRToGLTFOption{})
	doc, err := conv.Convert(root)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, output); err != nil {
		return err
	}
	logger.Infof("wrote %s", output)
	return nil
}

func infoScene(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("info: document path required", 1)
	}
	input := ctx.Args().Get(0)

	root, err := sgr.Load(input)
	if err != nil {
		return err
	}
	var meshes, materials int
	root.Walk(func(n *sgr.Node, depth int) {
		if n.Mesh != "" {
			meshes++
		}
		for _, m := range n.Materials {
			if m != "" {
				materials++
			}
		}
	})
	fmt.Printf("scene:     %s\n", root.Name)
	fmt.Printf("nodes:     %d\n", root.Count())
	fmt.Printf("meshes:    %d\n", meshes)
	fmt.Printf("materials: %d\n", materials)
	return nil
}
