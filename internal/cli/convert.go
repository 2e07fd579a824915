package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/io"
	"github.com/matzehuels/trbgen/pkg/pipeline"
)

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output   string
	noCache  bool
	workers  int
	fileSize string
	ext      string
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <file|dir>",
		Short: "Compile entity documents into .trb files",
		Long: `Compile a JSON or YAML entity document into a .trb file.

Given a directory, every .json, .yaml and .yml file directly inside it is
converted. Outputs are named after their inputs with the extension replaced.`,
		Example: `  trbgen convert jsonmaps/level1.json
  trbgen convert jsonmaps -o trb_gen --workers 8
  trbgen convert level1.json -o level1.trb --filesize 0x6b6f0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or output directory when converting a directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "files converted concurrently (default from config)")
	cmd.Flags().StringVar(&opts.fileSize, "filesize", "", "write this static value in the file size field instead of the real size (accepts 0x hex)")
	cmd.Flags().StringVar(&opts.ext, "ext", "", "output extension (default from config)")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, input string, opts convertOpts) error {
	ctx := cmd.Context()

	if err := errors.ValidatePath(input); err != nil {
		return err
	}
	if opts.ext == "" {
		opts.ext = c.Config.Output.Extension
	}
	if err := errors.ValidateExtension(opts.ext); err != nil {
		return err
	}
	if opts.workers <= 0 {
		opts.workers = c.Config.Convert.Workers
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.fileSize != "" {
		size, err := strconv.ParseUint(opts.fileSize, 0, 32)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "--filesize %q", opts.fileSize)
		}
		runner.Envelope.FileSize = uint32(size)
	}

	info, err := os.Stat(input)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", input)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", input)
	}
	if info.IsDir() {
		return c.convertDir(cmd, runner, input, opts)
	}
	return c.convertFile(cmd, runner, input, opts)
}

func (c *CLI) convertFile(cmd *cobra.Command, runner *pipeline.Runner, input string, opts convertOpts) error {
	out := opts.output
	if out == "" {
		out = io.OutputPath(input, c.Config.Output.Dir, opts.ext)
	}

	prog := newProgress(runner.Logger)
	res, err := runner.ConvertFile(cmd.Context(), input, out)
	if err != nil {
		return err
	}
	prog.done("converted", "input", input)

	printSuccess("Converted %s", input)
	printStats(res.Entities, len(res.Data), res.Cached)
	printFile(out)
	return nil
}

func (c *CLI) convertDir(cmd *cobra.Command, runner *pipeline.Runner, dir string, opts convertOpts) error {
	outDir := opts.output
	if outDir == "" {
		outDir = c.Config.Output.Dir
	}

	prog := newProgress(runner.Logger)
	spinner := newSpinner(cmd.Context(), fmt.Sprintf("Converting %s...", dir))
	if !c.verbose {
		spinner.Start()
	}
	results, err := runner.ConvertDir(cmd.Context(), dir, outDir, opts.ext, opts.workers)
	spinner.Stop()
	if err != nil && len(results) == 0 {
		return err
	}

	if len(results) == 0 {
		printWarning("No documents found in %s", dir)
		return nil
	}

	failed, cached := 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			printError("%s: %s", r.Input, errors.UserMessage(r.Err))
		case r.Cached:
			cached++
		}
	}
	prog.done("converted directory", "files", len(results), "failed", failed, "cached", cached)

	if err != nil {
		return err
	}

	converted := len(results) - failed
	printSuccess("Converted %d of %d files", converted, len(results))
	if cached > 0 {
		printDetail("%d from cache", cached)
	}
	if outDir != "" {
		printFile(outDir)
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d files failed", failed, len(results))
	}
	return nil
}
