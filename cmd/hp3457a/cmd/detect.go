// cmd/hp3457a/cmd/detect.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Identify the A1 board and firmware revision",
	Long: `Reset the instrument, probe it with an argument-less POKE and classify the
A1 main controller board from the resulting error register. Prints the
firmware revision reported by REV?.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	banner()

	s, res, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Detected HP 3457A REV %s with Main Controller Version %s\n",
		bold(res.String()), bold(s.Revision().String()), bold(s.Board().Name()))
	return nil
}
