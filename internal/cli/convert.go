package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/pipeline"
)

// convertFlags are shared by the root command and "convert".
type convertFlags struct {
	input        string
	output       string
	voxelSize    float64
	maxModelSize int
	noCache      bool
	refresh      bool
}

func (c *CLI) addConvertFlags(cmd *cobra.Command, f *convertFlags) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input XYZ point cloud (- for stdin)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output .vox file")
	cmd.Flags().Float64VarP(&f.voxelSize, "voxel-size", "s", pipeline.DefaultVoxelSize, "edge length of one voxel in input units")
	cmd.Flags().IntVar(&f.maxModelSize, "max-model-size", pipeline.DefaultMaxModelSize, "largest model edge in voxels (1-256)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert -i input.xyz -o output.vox",
		Short: "Convert an XYZ point cloud to a .vox file",
		Long: `Convert an XYZ point cloud to a .vox file.

The input holds one "x y z color" record per point. Coordinates are divided
by the voxel size and rounded to the nearest integer; color is a palette index.
Reading stops at the first record that does not parse.

The quantized cloud is split into models of at most --max-model-size voxels
per edge. Each model is placed in the scene graph at its original position.

Results are cached locally, keyed by the input bytes and options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, flags)
		},
	}
	c.addConvertFlags(cmd, &flags)
	return cmd
}

// convertOptions layers flags over the loaded config.
func (c *CLI) convertOptions(cmd *cobra.Command, f convertFlags) pipeline.Options {
	opts := pipeline.Options{
		VoxelSize:    c.Config.VoxelSize,
		MaxModelSize: c.Config.MaxModelSize,
		Source:       f.input,
		Refresh:      f.refresh,
		Logger:       c.Logger,
	}
	if cmd.Flags().Changed("voxel-size") {
		opts.VoxelSize = f.voxelSize
	}
	if cmd.Flags().Changed("max-model-size") {
		opts.MaxModelSize = f.maxModelSize
	}
	return opts
}

func (c *CLI) runConvert(cmd *cobra.Command, f convertFlags) error {
	if f.input == "" {
		return usageError(cmd, "missing input file (-i)")
	}
	if f.output == "" {
		return usageError(cmd, "missing output file (-o)")
	}
	if f.input != "-" {
		if err := errors.ValidateInputPath(f.input); err != nil {
			return err
		}
	}
	if err := errors.ValidateOutputPath(f.output); err != nil {
		return err
	}

	opts := c.convertOptions(cmd, f)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return c.convert(cmd.Context(), cmd.InOrStdin(), f, opts)
}

func (c *CLI) convert(ctx context.Context, stdin io.Reader, f convertFlags, opts pipeline.Options) error {
	var in io.Reader = stdin
	if f.input != "-" {
		file, err := os.Open(f.input)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", f.input)
		}
		defer file.Close()
		in = file
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printInfo("Reading from %s", f.input)
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, "Converting...")
	restore := observeStages(spinner)
	spinner.Start()

	result, err := runner.Execute(ctx, in, opts)
	restore()
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Conversion failed")
		return err
	}
	spinner.Stop()

	printDetail("Read %d voxels", result.Stats.Voxels)
	if result.Stats.Truncated {
		printWarning("Input ended at a malformed record; later points were skipped")
	}
	printDetail("Voxels are distributed over %d models", result.Stats.Models)
	printStats(result.Stats, result.CacheInfo.Hit)

	printInfo("Writing to %s", f.output)
	if err := os.WriteFile(f.output, result.Artifact, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}
	prog.done("Conversion finished")
	printSuccess("Conversion finished")
	printFile(f.output)
	printNextStep("Inspect the result", "voxgen inspect "+f.output)
	return nil
}

// usageError reports a missing or malformed command-line argument.
func usageError(cmd *cobra.Command, msg string) error {
	return errors.New(errors.ErrCodeInvalidInput, "%s; run '%s --help' for usage", msg, cmd.CommandPath())
}
