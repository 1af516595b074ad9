package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func newInfoCmd(opts *options) *cobra.Command {
	var skipField bool
	cmd := &cobra.Command{
		Use:   "info <mesh.obj|mesh.glb>",
		Short: "Display mesh and height field information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			m, err := s.loadMesh(args[0])
			if err != nil {
				return err
			}

			info := newMeshInfo(args[0], m)
			if !skipField {
				f, err := s.buildField(m)
				if err != nil {
					return err
				}
				info.Field = newFieldInfo(f)
			}
			return writeOutput(cmd.OutOrStdout(), opts.jsonOut, info)
		},
	}
	cmd.Flags().BoolVar(&skipField, "no-field", false, "Skip building the height field")
	return cmd
}

func newQueryCmd(opts *options) *cobra.Command {
	var scale, rotate []float32
	cmd := &cobra.Command{
		Use:   "query <mesh> <x> <z> [<x> <z>...]",
		Short: "Query ground height and normal at world points",
		Long: `Query ground height and normal at world points.

--scale and --rotate describe how the terrain object is placed; rotation is
in degrees about X, then Y, then Z. The object's position is not applied.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || len(args)%2 != 1 {
				return fmt.Errorf("need a mesh and one or more x z pairs, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := transformFromFlags(scale, rotate)
			if err != nil {
				return err
			}
			points, err := parsePoints(args[1:])
			if err != nil {
				return err
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			m, err := s.loadMesh(args[0])
			if err != nil {
				return err
			}
			f, err := s.buildField(m)
			if err != nil {
				return err
			}

			results := make([]queryResult, 0, len(points))
			for _, p := range points {
				sample, ok := f.Sample(p.X, p.Y, t)
				results = append(results, queryResult{
					X:      p.X,
					Z:      p.Y,
					Found:  ok,
					Exact:  sample.Exact,
					Height: sample.Height,
					Normal: sample.Normal.Array(),
				})
			}
			return writeOutput(cmd.OutOrStdout(), opts.jsonOut, queryResults(results))
		},
	}
	cmd.Flags().Float32SliceVar(&scale, "scale", []float32{1, 1, 1}, "Terrain scale x,y,z")
	cmd.Flags().Float32SliceVar(&rotate, "rotate", []float32{0, 0, 0}, "Terrain rotation x,y,z in degrees")
	return cmd
}

func newDumpCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump <mesh>",
		Short: "Write the height field as a grayscale WebP image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			m, err := s.loadMesh(args[0])
			if err != nil {
				return err
			}
			f, err := s.buildField(m)
			if err != nil {
				return err
			}

			if output == "" {
				base := path.Base(strings.ReplaceAll(args[0], "\\", "/"))
				output = strings.TrimSuffix(base, path.Ext(base)) + "_height.webp"
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			img := debug.HeightImage(f)
			if err := debug.EncodeWebP(file, img); err != nil {
				file.Close()
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return err
			}

			logger.Info("height image written",
				zap.String("path", output),
				zap.Int("width", img.Bounds().Dx()),
				zap.Int("height", img.Bounds().Dy()),
			)
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <mesh>_height.webp)")
	return cmd
}

func newGenCmd(opts *options) *cobra.Command {
	gen := terrain.DefaultGenerateOptions()
	var output string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a perlin noise terrain OBJ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := terrain.GenerateOBJ(w, gen); err != nil {
				return err
			}
			logger.Info("terrain generated",
				zap.Int("size", gen.Size),
				zap.Int64("seed", gen.Seed),
				zap.String("output", output),
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "-", "Output path, - for stdout")
	f.IntVar(&gen.Size, "size", gen.Size, "Quads per side")
	f.Float32Var(&gen.Spacing, "spacing", gen.Spacing, "World units between grid lines")
	f.Float32Var(&gen.Amplitude, "amplitude", gen.Amplitude, "Peak height")
	f.Float64Var(&gen.Frequency, "frequency", gen.Frequency, "Noise frequency per world unit")
	f.Int64Var(&gen.Seed, "seed", gen.Seed, "Noise seed")
	return cmd
}

func transformFromFlags(scale, rotate []float32) (math.Transform, error) {
	if len(scale) != 3 || len(rotate) != 3 {
		return math.Transform{}, fmt.Errorf("--scale and --rotate take three values each")
	}
	t := math.NewTransform()
	t.Scale = math.Vec3{X: scale[0], Y: scale[1], Z: scale[2]}
	deg := math32.Pi / 180
	t.Rotation = math.Vec3{X: rotate[0] * deg, Y: rotate[1] * deg, Z: rotate[2] * deg}
	return t, nil
}

func parsePoints(args []string) ([]math.Vec2, error) {
	points := make([]math.Vec2, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("point %d: x: %w", i/2+1, err)
		}
		z, err := strconv.ParseFloat(args[i+1], 32)
		if err != nil {
			return nil, fmt.Errorf("point %d: z: %w", i/2+1, err)
		}
		points = append(points, math.Vec2{X: float32(x), Y: float32(z)})
	}
	return points, nil
}
