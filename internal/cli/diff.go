package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/inspect"
	"github.com/matzehuels/trbgen/pkg/io"
)

func (c *CLI) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a.trb> <b.trb>",
		Short: "Compare two .trb files byte by byte",
		Long: `Compare two compiled files, typically a generated file against a reference
file shipped with the game. Prints the first differing offset and a diff of
the hex dumps. Exits non-zero when the files differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := io.ImportBinary(args[0])
			if err != nil {
				return err
			}
			b, err := io.ImportBinary(args[1])
			if err != nil {
				return err
			}

			d := inspect.Diff(a, b)
			if d.Equal() {
				printSuccess("Files are identical (%d bytes)", d.SizeA)
				return nil
			}

			printKeyValue(args[0], fmt.Sprintf("%d bytes", d.SizeA))
			printKeyValue(args[1], fmt.Sprintf("%d bytes", d.SizeB))
			printKeyValue("first diff", fmt.Sprintf("%#x", d.FirstDiff))
			for _, l := range d.Lines {
				fmt.Fprintf(cmd.OutOrStdout(), "%c %s\n", l.Op, l.Text)
			}
			return errors.New(errors.ErrCodeInvalidInput, "files differ at %#x", d.FirstDiff)
		},
	}
}
