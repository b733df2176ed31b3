package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pcbrender/internal/renderscript"
)

func newRenderCmd(ctx context.Context) *cobra.Command {
	var (
		scriptPath string
		sources    []string
		outDir     string
		dpi        float64
		invertY    bool
		dumpDebug  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "run a render script against a set of Gerber/Excellon sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			scriptData, err := os.ReadFile(scriptPath)
			if err != nil {
				return fmt.Errorf("reading script %s: %w", scriptPath, err)
			}
			script, err := renderscript.Load(scriptData)
			if err != nil {
				return err
			}

			pool := renderscript.NewSources()
			for _, path := range sources {
				if strings.EqualFold(filepath.Ext(path), ".zip") {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("reading archive %s: %w", path, err)
					}
					if err := pool.AddArchive(filepath.Base(path), data); err != nil {
						return err
					}
					continue
				}
				pool.AddFile(path)
			}

			driver := renderscript.NewDriver(script, pool, dpi, invertY, logger)
			results, err := driver.RenderAll()
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("creating output directory %s: %w", outDir, err)
				}
			}
			runID := uuid.NewString()
			for name, canvas := range results {
				if canvas == nil {
					logger.WarnContext(ctx, "deliverable produced no output", "step", name)
					continue
				}
				dir := outDir
				if dir == "" {
					dir = "."
				}
				path := filepath.Join(dir, name+".png")
				if err := canvas.ExportPNG(path); err != nil {
					return err
				}
				logger.InfoContext(ctx, "wrote deliverable", "step", name, "path", path)
			}
			if dumpDebug {
				debugDir := filepath.Join(os.TempDir(), "pcbrender-"+runID)
				if err := os.MkdirAll(debugDir, 0o755); err != nil {
					return fmt.Errorf("creating debug directory: %w", err)
				}
				for name, canvas := range driver.Results() {
					if canvas == nil {
						continue
					}
					if err := canvas.ExportPNG(filepath.Join(debugDir, name+".png")); err != nil {
						return err
					}
				}
				logger.InfoContext(ctx, "wrote debug dump", "dir", debugDir)
			}
			return nil
		},
	}

	pf := cmd.Flags()
	pf.StringVarP(&scriptPath, "script", "s", "", "path to the render script JSON")
	pf.StringArrayVar(&sources, "source", nil, "source file or .zip archive to register (repeatable)")
	pf.StringVarP(&outDir, "out", "o", "", "directory to write deliverable PNGs into")
	pf.Float64Var(&dpi, "resolution", 1000, "rasterization resolution, in dots per inch")
	pf.BoolVar(&invertY, "invert-y", true, "treat Y as increasing upward (PCB convention) rather than downward (image convention)")
	pf.BoolVar(&dumpDebug, "verbose", false, "write every step's canvas as a PNG into a per-run directory under the system temp dir")
	cmd.MarkFlagRequired("script")

	return cmd
}
