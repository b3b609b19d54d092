package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/voxelforge/anvil2voxel/voxgrid"
)

// ConvertWorlds walks the worlds root and converts every subdirectory that
// contains a region/ directory. Fatal configuration and corruption errors
// abort the run; everything chunk- or region-local is logged and skipped.
func ConvertWorlds(cfg *Config, palette *GlobalPalette) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(cfg.WorldsRoot)
	if err != nil {
		return err
	}

	converted := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		regionDir := filepath.Join(cfg.WorldsRoot, entry.Name(), "region")
		if info, err := os.Stat(regionDir); err != nil || !info.IsDir() {
			continue
		}
		if err := convertWorld(cfg, palette, entry.Name(), regionDir); err != nil {
			return fmt.Errorf("world %s: %w", entry.Name(), err)
		}
		converted++
	}
	if converted == 0 {
		logrus.WithField("root", cfg.WorldsRoot).Warn("no world directories found")
	}
	return nil
}

// convertWorld fans the world's region files out across cfg.Workers
// goroutines. Each worker owns its region reader and its sink; the global
// palette is shared read-only.
func convertWorld(cfg *Config, palette *GlobalPalette, worldName, regionDir string) error {
	files, err := os.ReadDir(regionDir)
	if err != nil {
		return err
	}

	var regionFiles []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".mca") {
			continue
		}
		if _, _, err := parseRegionName(f.Name()); err != nil {
			logrus.WithField("file", f.Name()).Warn("ignoring unrecognized file in region directory")
			continue
		}
		regionFiles = append(regionFiles, filepath.Join(regionDir, f.Name()))
	}
	logrus.WithFields(logrus.Fields{"world": worldName, "regions": len(regionFiles)}).Info("converting world")

	sem := make(chan struct{}, cfg.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, path := range regionFiles {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := convertRegion(cfg, palette, worldName, path); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()
	return firstErr
}

// convertRegion decodes one region file. The returned error is non-nil only
// for failures that must abort the run: unknown block names and corruption
// caught by the decoder. I/O trouble skips the region.
func convertRegion(cfg *Config, palette *GlobalPalette, worldName, path string) error {
	regionX, regionZ, err := parseRegionName(filepath.Base(path))
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{"world": worldName, "region": fmt.Sprintf("%d,%d", regionX, regionZ)})

	file, err := os.Open(path)
	if err != nil {
		log.WithError(err).Warn("skipping region: cannot open")
		return nil
	}
	reader, err := NewAnvilReader(file)
	if err != nil {
		file.Close()
		log.WithError(err).Warn("skipping region: cannot read sector table")
		return nil
	}
	defer reader.Close()

	switch cfg.Mode {
	case ModeRegions:
		return convertRegionWhole(cfg, palette, reader, worldName, regionX, regionZ, log)
	default:
		return convertRegionChunks(cfg, palette, reader, worldName, regionX, regionZ, log)
	}
}

// convertRegionChunks emits one grid file per populated chunk.
func convertRegionChunks(cfg *Config, palette *GlobalPalette, reader *AnvilReader, worldName string, regionX, regionZ int32, log *logrus.Entry) error {
	for slot := 0; slot < anvilMaxChunks; slot++ {
		chunk, err := readChunkSections(reader, slot, regionX, regionZ, log)
		if err != nil {
			return err
		}
		if chunk == nil {
			continue
		}

		grid := voxgrid.New(0)
		if err := decodeChunk(palette, chunk, cfg.MinSectionY, grid); err != nil {
			return err
		}
		grid.Prune()
		if grid.ActiveVoxelCount() == 0 {
			continue
		}

		name := fmt.Sprintf("%s.%d.%d", worldName, chunk.ChunkX, chunk.ChunkZ)
		grid.SetName(name)
		out := filepath.Join(cfg.OutputDir, name+"."+voxgrid.FileExtension)
		if err := voxgrid.WriteFile(out, grid); err != nil {
			log.WithError(err).Warn("skipping region: cannot write grid file")
			return nil
		}
	}
	return nil
}

// convertRegionWhole accumulates the whole region into one grid and emits a
// single file, suppressed when empty.
func convertRegionWhole(cfg *Config, palette *GlobalPalette, reader *AnvilReader, worldName string, regionX, regionZ int32, log *logrus.Entry) error {
	grid := voxgrid.New(0)
	for slot := 0; slot < anvilMaxChunks; slot++ {
		chunk, err := readChunkSections(reader, slot, regionX, regionZ, log)
		if err != nil {
			return err
		}
		if chunk == nil {
			continue
		}
		if err := decodeChunk(palette, chunk, cfg.MinSectionY, grid); err != nil {
			return err
		}
	}

	grid.Prune()
	if grid.ActiveVoxelCount() == 0 {
		return nil
	}

	name := fmt.Sprintf("%s.%d.%d", worldName, regionX, regionZ)
	grid.SetName(name)
	out := filepath.Join(cfg.OutputDir, name+"."+voxgrid.FileExtension)
	if err := voxgrid.WriteFile(out, grid); err != nil {
		log.WithError(err).Warn("skipping region: cannot write grid file")
	}
	return nil
}

// readChunkSections reads, inflates and parses one chunk slot. A nil chunk
// with a nil error means the slot is absent or was skipped.
func readChunkSections(reader *AnvilReader, slot int, regionX, regionZ int32, log *logrus.Entry) (*ChunkSections, error) {
	if !reader.ChunkExists(slot) {
		return nil, nil
	}

	raw, err := reader.ReadChunk(slot)
	if err != nil {
		if errors.Is(err, ErrUnsupportedCompression) {
			log.WithField("slot", slot).Info("skipping chunk: not zlib compressed")
		} else {
			log.WithField("slot", slot).WithError(err).Warn("skipping chunk: unreadable")
		}
		return nil, nil
	}

	chunkX, chunkZ := slotToChunkCoords(slot, regionX, regionZ)
	chunk, err := ParseChunkSections(raw, chunkX, chunkZ)
	if err != nil {
		log.WithField("slot", slot).WithError(err).Warn("skipping chunk: malformed NBT")
		return nil, nil
	}
	if len(chunk.Sections) == 0 {
		return nil, nil
	}
	return chunk, nil
}

// decodeChunk routes the chunk's sections into the grid, dropping sections
// below the configured minimum. Unknown block names and decoder logic
// errors, empty palettes included, abort the run.
func decodeChunk(palette *GlobalPalette, chunk *ChunkSections, minSectionY int, grid *voxgrid.Grid) error {
	sink := gridSink{acc: grid.Accessor()}
	for i := range chunk.Sections {
		section := &chunk.Sections[i]
		if int(section.Y) < minSectionY {
			continue
		}
		if err := DecodeSection(palette, section, chunk.XOffset, chunk.ZOffset, sink); err != nil {
			return fmt.Errorf("chunk %d,%d section %d: %w", chunk.ChunkX, chunk.ChunkZ, section.Y, err)
		}
	}
	return nil
}
