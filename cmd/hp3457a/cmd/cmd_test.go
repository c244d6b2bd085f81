// cmd/hp3457a/cmd/cmd_test.go
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/hp3457a-dumper/internal/dump"
	"github.com/tamzrod/hp3457a-dumper/internal/instrument"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestDetectSimulator(t *testing.T) {
	out, err := run(t, "detect", "--adapter", "sim")
	require.NoError(t, err)
	assert.Contains(t, out, "GPIB0::22::INSTR")
	assert.Contains(t, out, "REV 4.1")
	assert.Contains(t, out, "03457-66511")
}

func TestRegionsByBoard(t *testing.T) {
	out, err := run(t, "regions", "--board", "03457-66501")
	require.NoError(t, err)
	assert.Contains(t, out, "U511_CAL_RAM")
	assert.Contains(t, out, "0x5600")
	assert.Contains(t, out, "write-protected")
	assert.NotContains(t, out, "U603")
}

func TestRegionsUnknownBoard(t *testing.T) {
	_, err := run(t, "regions", "--board", "03457-99999")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestDumpDefaultsToCalRAM(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "dump", "--adapter", "sim", "--out", dir, "--verify", "1", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "U603_CAL_RAM 448 bytes")

	bins, err := filepath.Glob(filepath.Join(dir, "*U603_CAL_RAM*.bin"))
	require.NoError(t, err)
	require.Len(t, bins, 1)
	data, err := os.ReadFile(bins[0])
	require.NoError(t, err)
	assert.Len(t, data, 448)

	yamls, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, yamls, 1)
}

func TestDumpCustomRange(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "dump", "--adapter", "sim", "--out", dir, "--start", "0x2000", "--end", "0x2010", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "0x2000-0x2010 17 bytes")
}

func TestDumpUnknownRegion(t *testing.T) {
	_, err := run(t, "dump", "--adapter", "sim", "--out", t.TempDir(), "U511")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestDumpRangeConflicts(t *testing.T) {
	_, err := run(t, "dump", "--adapter", "sim", "--out", t.TempDir(), "--all", "--start", "0x10")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestConvertLegacyLog(t *testing.T) {
	in := filepath.Join(t.TempDir(), "3457_DUMP_1543000000.txt")
	require.NoError(t, os.WriteFile(in, []byte("0: 4660\n1: 13330\n2: 22136\n3: 120\n"), 0o644))
	dir := t.TempDir()

	_, err := run(t, "convert", in, "--out", dir)
	require.NoError(t, err)

	bins, err := filepath.Glob(filepath.Join(dir, "*.bin"))
	require.NoError(t, err)
	require.Len(t, bins, 1)
	data, err := os.ReadFile(bins[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12, 0x78, 0x56}, data)
}

func TestMissingPort(t *testing.T) {
	_, err := run(t, "detect")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{usageError{errors.New("bad flag")}, exitUsage},
		{fmt.Errorf("peek: %w", transport.ErrTimeout), exitTimeout},
		{&instrument.DetectionError{Reply: "0"}, exitProtocol},
		{fmt.Errorf("x: %w", dump.ErrMalformedPeek), exitProtocol},
		{&dump.MismatchError{Pass: 2, Offsets: []int{0}}, exitVerify},
		{errors.New("other"), exitUsage},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, exitCode(c.err), "%v", c.err)
	}
}
