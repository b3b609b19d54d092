package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/voxelforge/anvil2voxel/voxgrid"
)

func main() {
	app := &cli.App{
		Name:  "anvil2voxel",
		Usage: "converts Anvil worlds to sparse voxel grids",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "worlds", Usage: "directory of world directories"},
			&cli.StringFlag{Name: "out", Usage: "output directory for grid files"},
			&cli.StringFlag{Name: "blocks", Usage: "newline-delimited block list (the global palette)"},
			&cli.StringFlag{Name: "mode", Usage: "emit one grid per \"chunks\" or per \"regions\""},
			&cli.IntFlag{Name: "min-section-y", Usage: "drop sections below this vertical index"},
			&cli.IntFlag{Name: "workers", Usage: "regions converted in parallel"},
		},
		Action: runConvert,
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "print the NBT structure of a chunk in a region file",
				ArgsUsage: "<region.mca> [slot]",
				Action:    runDump,
			},
			{
				Name:      "find",
				Usage:     "resolve the block at a world coordinate",
				ArgsUsage: "<world-dir> <x> <y> <z>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "blocks", Usage: "newline-delimited block list", Required: true},
				},
				Action: runFind,
			},
			{
				Name:      "info",
				Usage:     "summarize a grid file",
				ArgsUsage: "<grid.vxg>",
				Action:    runInfo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func runConvert(c *cli.Context) error {
	cfg := defaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.IsSet("worlds") {
		cfg.WorldsRoot = c.String("worlds")
	}
	if c.IsSet("out") {
		cfg.OutputDir = c.String("out")
	}
	if c.IsSet("blocks") {
		cfg.BlockList = c.String("blocks")
	}
	if c.IsSet("mode") {
		cfg.Mode = c.String("mode")
	}
	if c.IsSet("min-section-y") {
		cfg.MinSectionY = c.Int("min-section-y")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	palette, err := LoadGlobalPalette(cfg.BlockList)
	if err != nil {
		return err
	}
	logrus.WithField("blocks", palette.Len()).Info("loaded global palette")

	return ConvertWorlds(cfg, palette)
}

func runDump(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need a region file to dump")
	}

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	reader, err := NewAnvilReader(file)
	if err != nil {
		file.Close()
		return err
	}
	defer reader.Close()

	slot := -1
	if c.NArg() > 1 {
		slot, err = strconv.Atoi(c.Args().Get(1))
		if err != nil || slot < 0 || slot >= anvilMaxChunks {
			return fmt.Errorf("slot must be an integer in [0, %d)", anvilMaxChunks)
		}
	} else {
		for i := 0; i < anvilMaxChunks; i++ {
			if reader.ChunkExists(i) {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%s: region is empty", reader.Name)
		}
	}

	return dumpChunk(reader, slot, os.Stdout)
}

func runFind(c *cli.Context) error {
	if c.NArg() != 4 {
		return fmt.Errorf("need a world directory and x y z")
	}
	coords := make([]int32, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(c.Args().Get(i + 1))
		if err != nil {
			return fmt.Errorf("coordinate %q is not an integer", c.Args().Get(i+1))
		}
		coords[i] = int32(v)
	}

	palette, err := LoadGlobalPalette(c.String("blocks"))
	if err != nil {
		return err
	}

	id, err := FindBlock(palette, c.Args().Get(0), coords[0], coords[1], coords[2])
	if err != nil {
		return err
	}
	fmt.Printf("(%d, %d, %d) = %d %s\n", coords[0], coords[1], coords[2], id, palette.Name(id))
	return nil
}

func runInfo(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need a grid file")
	}
	grid, err := voxgrid.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	fmt.Printf("name: %s\n", grid.Name())
	fmt.Printf("background: %d\n", grid.Background())
	fmt.Printf("active voxels: %d\n", grid.ActiveVoxelCount())
	if min, max, ok := grid.Bounds(); ok {
		fmt.Printf("bounds: (%d, %d, %d) .. (%d, %d, %d)\n", min.X, min.Y, min.Z, max.X, max.Y, max.Z)
	}
	return nil
}
