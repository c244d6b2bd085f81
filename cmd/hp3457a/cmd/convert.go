// cmd/hp3457a/cmd/convert.go
package cmd

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/hp3457a-dumper/internal/archive"
	"github.com/tamzrod/hp3457a-dumper/internal/config"
)

var convertOut string

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a raw PEEK log from the 2018 dumper",
	Long: `Convert a "<address>: <word>" log written by the 2018 single-shot
dumper into the paired .bin/.txt archive format. A Unix timestamp in the
file name (3457_DUMP_<ts>.txt) is carried into the output name.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output directory (default ~/HP_3457A Dumps)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("out") {
		abs, err := filepath.Abs(convertOut)
		if err != nil {
			return usageError{err}
		}
		cfg.Output.Dir = abs
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Level = logLevel
	}
	config.Normalize(cfg)
	setupLogging(cfg.Log.Level)
	dir := cfg.Output.Dir

	in, err := os.Open(args[0])
	if err != nil {
		return usageError{err}
	}
	defer in.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Reading %s...\n", args[0])
	d, err := archive.ConvertLegacy(in)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if len(d.Data) == 0 {
		return fmt.Errorf("%s: no even addresses found", args[0])
	}

	stamp, ok := archive.LegacyTimestamp(filepath.Base(args[0]))
	if !ok {
		stamp = time.Now()
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found timestamp %d, converted to %s\n", stamp.Unix(), stamp.Format("2006-01-02_15-04-05"))
	}

	w, err := archive.New(dir)
	if err != nil {
		return err
	}
	sum := md5.Sum(d.Data)
	m := &archive.Manifest{
		Region:  "legacy",
		Desc:    "converted from " + filepath.Base(args[0]),
		Start:   archive.Hex16(d.Start),
		End:     archive.Hex16(d.End() - 1),
		Size:    len(d.Data),
		MD5:     hex.EncodeToString(sum[:]),
		Passes:  1,
		Created: stamp.UTC(),
	}
	files, err := w.Save(archive.FileName("", "", stamp), d, m)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%s\n", files.Binary, files.Text, files.Manifest)
	return nil
}
