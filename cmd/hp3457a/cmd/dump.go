// cmd/hp3457a/cmd/dump.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tamzrod/hp3457a-dumper/internal/archive"
	"github.com/tamzrod/hp3457a-dumper/internal/board"
	"github.com/tamzrod/hp3457a-dumper/internal/dump"
	"github.com/tamzrod/hp3457a-dumper/internal/instrument"
)

var (
	dumpAll    bool
	dumpStart  uint16
	dumpEnd    uint16
	dumpOut    string
	dumpVerify int
	dumpQuiet  bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [REGION...]",
	Short: "Dump memory regions to .bin/.txt/.yaml archives",
	Long: `Dump one or more regions of the detected board. With no region the
write-protected CAL-RAM is dumped. --all dumps every leaf region.
--start/--end dump an arbitrary inclusive address range instead.

Each region is read --verify times (default 2) and the reads are compared
before anything is written.`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	f := dumpCmd.Flags()
	f.BoolVar(&dumpAll, "all", false, "dump every region without children")
	f.Uint16Var(&dumpStart, "start", 0, "first address of a custom range")
	f.Uint16Var(&dumpEnd, "end", 0, "last address (inclusive) of a custom range")
	f.StringVarP(&dumpOut, "out", "o", "", "output directory (default ~/HP_3457A Dumps)")
	f.IntVar(&dumpVerify, "verify", 0, "read passes that must match (default 2)")
	f.BoolVarP(&dumpQuiet, "quiet", "q", false, "no progress output")
}

type dumpTarget struct {
	key    string
	region board.Region
	custom bool
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		abs, err := filepath.Abs(dumpOut)
		if err != nil {
			return usageError{err}
		}
		cfg.Output.Dir = abs
	}
	if cmd.Flags().Changed("verify") {
		if dumpVerify < 1 {
			return usageError{fmt.Errorf("--verify must be >= 1")}
		}
		cfg.Output.VerifyPasses = dumpVerify
	}
	banner()

	s, res, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	targets, err := selectTargets(cmd, s.Board(), args)
	if err != nil {
		return err
	}

	w, err := archive.New(cfg.Output.Dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s REV %s, A1 %s\n", res, s.Revision(), s.Board().Name())

	for _, t := range targets {
		var opts []dump.Option
		if !dumpQuiet {
			opts = append(opts, dump.WithProgress(progressBar(cmd.ErrOrStderr(), t.key, cfg.Output.VerifyPasses)))
		}
		eng := dump.New(s, opts...)

		result, err := eng.DumpVerified(ctx, t.region, cfg.Output.VerifyPasses)
		if !dumpQuiet {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if err != nil {
			return fmt.Errorf("%s: %w", t.key, err)
		}

		files, err := save(w, s, res.String(), t, result)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s %d bytes md5 %s\n", color.GreenString("saved"), t.key, len(result.Data), result.MD5)
		fmt.Fprintf(out, "  %s\n  %s\n  %s\n", files.Binary, files.Text, files.Manifest)
	}
	return nil
}

func selectTargets(cmd *cobra.Command, b *board.Board, keys []string) ([]dumpTarget, error) {
	custom := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")

	switch {
	case custom:
		if len(keys) > 0 || dumpAll {
			return nil, usageError{fmt.Errorf("--start/--end cannot be combined with regions or --all")}
		}
		if dumpEnd < dumpStart {
			return nil, usageError{fmt.Errorf("--end 0x%04X before --start 0x%04X", dumpEnd, dumpStart)}
		}
		key := fmt.Sprintf("0x%04X-0x%04X", dumpStart, dumpEnd)
		r := board.Span("custom range", dumpStart, dumpEnd, board.Unavailable)
		return []dumpTarget{{key: key, region: r, custom: true}}, nil

	case dumpAll:
		var out []dumpTarget
		for _, e := range b.Entries() {
			if len(b.Children(e.Key)) > 0 || !e.Region.HasEnd {
				continue
			}
			out = append(out, dumpTarget{key: e.Key, region: e.Region})
		}
		return out, nil

	case len(keys) > 0:
		out := make([]dumpTarget, 0, len(keys))
		for _, k := range keys {
			r, ok := b.Lookup(k)
			if !ok {
				return nil, usageError{fmt.Errorf("board %s has no region %q (have %v)", b.Name(), k, b.Keys())}
			}
			out = append(out, dumpTarget{key: k, region: r})
		}
		return out, nil

	default:
		cal, ok := b.CalRAM()
		if !ok {
			return nil, fmt.Errorf("board %s has no CAL-RAM region", b.Name())
		}
		return []dumpTarget{{key: cal.Key, region: cal.Region}}, nil
	}
}

func save(w *archive.Writer, s *instrument.Session, res string, t dumpTarget, r dump.Result) (archive.Files, error) {
	now := time.Now()
	m := &archive.Manifest{
		Board:      s.Board().Name(),
		Revision:   s.Revision().String(),
		Resource:   res,
		Region:     t.key,
		Desc:       t.region.Desc,
		Protection: t.region.Protection.String(),
		Start:      archive.Hex16(t.region.Start),
		End:        archive.Hex16(t.region.Last()),
		Size:       len(r.Data),
		MD5:        r.MD5,
		Passes:     r.Passes,
		Created:    now.UTC(),
	}
	if t.custom {
		m.Protection = ""
	}
	name := archive.FileName(s.Board().Name(), t.key, now)
	return w.Save(name, archive.Dump{Start: r.Start, Data: r.Data}, m)
}

// progressBar renders one status line per region; passes share the line.
func progressBar(w io.Writer, key string, passes int) dump.Progress {
	pass := 1
	last := -1
	return func(done, total int) {
		pct := 100
		if total > 0 {
			pct = done * 100 / total
		}
		if pct == last && done != total {
			return
		}
		last = pct
		fmt.Fprintf(w, "\r%s pass %d/%d %3d%% (%d/%d)", color.CyanString(key), pass, passes, pct, done, total)
		if done == total {
			pass++
			last = -1
		}
	}
}
