// cmd/hp3457a/cmd/regions.go
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
)

var regionsBoard string

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the memory regions of a board",
	Long: `Print the address map of an A1 board. Without --board the instrument is
contacted and the detected board is shown.`,
	Args: cobra.NoArgs,
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.Flags().StringVarP(&regionsBoard, "board", "b", "", "board part number, e.g. 03457-66511")
}

func runRegions(cmd *cobra.Command, args []string) error {
	if regionsBoard != "" {
		setupLogging(logLevel)
		id, err := board.ParseID(regionsBoard)
		if err != nil {
			return usageError{err}
		}
		b, err := board.For(id)
		if err != nil {
			return err
		}
		return printRegions(cmd.OutOrStdout(), b)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, _, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return printRegions(cmd.OutOrStdout(), s.Board())
}

func printRegions(w io.Writer, b *board.Board) error {
	fmt.Fprintf(w, "A1 %s\n", b.Name())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTART\tEND\tSIZE\tPROTECTION\tDESCRIPTION")
	for _, e := range b.Entries() {
		key := e.Key
		if e.Region.Parent != "" {
			key = "  " + key
		}
		end := "-"
		if e.Region.HasEnd {
			end = fmt.Sprintf("0x%04X", e.Region.End)
		}
		fmt.Fprintf(tw, "%s\t0x%04X\t%s\t%d\t%s\t%s\n",
			key, e.Region.Start, end, e.Region.Size(), e.Region.Protection, e.Region.Desc)
	}
	return tw.Flush()
}
