package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/nybane/sgrconv/log"
)

var logger = log.New("sgrconv")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sgrconv"
	app.Usage = "convert scene hierarchies to and from scene-graph documents"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.Bool("v") {
			log.SetLevel(log.Debug)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "convert a glTF scene into a scene-graph document",
			Description: `
Read a .glb or .gltf file, rebuild its node hierarchy in the document's
Z-up basis and write <scene>.sgr plus the referenced material files.`,
			ArgsUsage: "input.glb [output.sgr]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "settings",
					Usage: "export settings YAML file",
				},
				cli.StringFlag{
					Name:  "scene",
					Usage: "override the scene name",
				},
				cli.BoolFlag{
					Name:  "textures",
					Usage: "convert externally referenced images into Textures/",
				},
			},
			Action: exportScene,
		},
		{
			Name:  "import",
			Usage: "instantiate a scene-graph document into an editor scene",
			Description: `
Parse a .sgr document, resolve its mesh and material references against the
scene directory and print the resulting entity hierarchy. Unresolved assets
are skipped with a warning unless --strict is given.`,
			ArgsUsage: "scene.sgr",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "strict",
					Usage: "abort on the first unresolved asset",
				},
			},
			Action: importScene,
		},
		{
			Name:      "preview",
			Usage:     "convert a scene-graph document back to glTF",
			ArgsUsage: "scene.sgr [output.glb]",
			Action:    previewScene,
		},
		{
			Name:      "info",
			Usage:     "print document statistics",
			ArgsUsage: "scene.sgr",
			Action:    infoScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
