package cli

import (
	"fmt"
	stdio "io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trbgen/pkg/alloc"
	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/inspect"
	"github.com/matzehuels/trbgen/pkg/io"
	"github.com/matzehuels/trbgen/pkg/trb"
)

// Inspect output formats.
const (
	inspectText = "text"
	inspectDOT  = "dot"
	inspectSVG  = "svg"
	inspectHex  = "hex"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how a document is laid out in its .trb body",
		Long: `Compile a document and describe the layout of its section body.

Formats:
  text  generation summary (default)
  dot   Graphviz graph with one rank per generation
  svg   the same graph rendered with Graphviz
  hex   hex dump of the complete file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", inspectText, "output format: text, dot, svg or hex")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input, format, output string) error {
	doc, err := io.ImportDocument(input)
	if err != nil {
		return err
	}
	enc := trb.NewEncoder(c.Config.TrbEnvelope())
	body, err := trb.BodyTree(doc)
	if err != nil {
		return err
	}
	layout := alloc.Allocate(body)

	var data []byte
	switch format {
	case inspectText:
		file, err := enc.Encode(doc)
		if err != nil {
			return err
		}
		data = []byte(fmt.Sprintf("file: %d bytes (%d header + %d body)\nbody: %s",
			len(file), trb.HeaderSize, len(layout.Bytes), inspect.Summarize(layout)))
	case inspectDOT:
		data = []byte(inspect.ToDOT(layout))
	case inspectSVG:
		data, err = inspect.RenderSVG(cmd.Context(), inspect.ToDOT(layout))
		if err != nil {
			return err
		}
	case inspectHex:
		file, err := enc.Encode(doc)
		if err != nil {
			return err
		}
		data = []byte(inspect.HexDump(file))
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want text, dot, svg or hex)", format)
	}

	if output == "" {
		return writeTo(cmd.OutOrStdout(), data)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}
	printSuccess("Wrote %s layout of %s", format, input)
	printFile(output)
	return nil
}

func writeTo(w stdio.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
