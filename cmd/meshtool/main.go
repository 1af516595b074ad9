// meshtool inspects terrain meshes and the height fields built from them.
//
// Commands:
//
//	info   - mesh statistics, bounds and height field layout
//	query  - ground height and normal at world (x, z) points
//	dump   - height field as a grayscale WebP image
//	gen    - perlin noise terrain as an OBJ file
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

var version = "dev"

// options are the flags shared by every command.
type options struct {
	configPath   string
	assetDir     string
	logLevel     string
	sampleFactor int
	noTexCoords  bool
	flatNormals  bool
	jsonOut      bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "meshtool",
		Short: "Inspect terrain meshes and their height fields",
		Long: `meshtool - terrain mesh inspector

Reads OBJ and GLB assets through the same sources as the viewer: the
configured directories and S3 bucket, then --assets on top.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWriter(opts.logLevel, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config file")
	pf.StringVar(&opts.assetDir, "assets", ".", "Asset directory searched before the configured sources")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.IntVar(&opts.sampleFactor, "sample-factor", 0, "Height field cells per world unit (default from config)")
	pf.BoolVar(&opts.noTexCoords, "no-texcoords", false, "Skip texture coordinates")
	pf.BoolVar(&opts.flatNormals, "flat", false, "Synthesize flat instead of smooth normals")
	pf.BoolVar(&opts.jsonOut, "json", false, "Write JSON instead of text")

	root.AddCommand(
		newInfoCmd(opts),
		newQueryCmd(opts),
		newDumpCmd(opts),
		newGenCmd(opts),
	)
	return root
}

// session is what a command needs to read meshes: resolved config and sources.
type session struct {
	cfg    *config.Config
	assets *assets.Manager
	opts   *options
}

func (o *options) open() (*session, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.sampleFactor > 0 {
		cfg.Terrain.SampleFactor = o.sampleFactor
	}

	m, err := assets.FromConfig(cfg.Assets)
	if err != nil {
		return nil, err
	}
	if o.assetDir != "" {
		m.AddSource(assets.NewDirSource(o.assetDir))
	}
	return &session{cfg: cfg, assets: m, opts: o}, nil
}

func (s *session) loadMesh(name string) (*mesh.Mesh, error) {
	rc, err := s.assets.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := mesh.Decode(name, rc, mesh.ParseOptions{
		GenerateHeightField: true,
		HasTexCoords:        !s.opts.noTexCoords,
		SmoothNormals:       !s.opts.flatNormals && s.cfg.Terrain.SmoothNormals,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("mesh parsed",
		zap.String("name", name),
		zap.Int("positions", m.PositionCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return m, nil
}

func (s *session) buildField(m *mesh.Mesh) (*terrain.HeightField, error) {
	return terrain.Build(m, terrain.BuildOptions{
		SampleFactor:  s.cfg.Terrain.SampleFactor,
		MaxDenseCells: s.cfg.Terrain.MaxDenseCells,
	})
}
