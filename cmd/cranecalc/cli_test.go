package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Jibcrane/internal/calc/crane"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestCalcJSON(t *testing.T) {
	out := run(t, "calc", "--mass", "5", "--json")
	var res crane.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 5.0, res.Input.MassTip)
	assert.Less(t, res.TipDisplacement.DZ, 0.0)
}

func TestInputFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crane.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mass_tip": 7, "arm_len": 800}`), 0o600))

	out := run(t, "calc", "-i", path, "--arm-len", "900", "--json")
	var res crane.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 7.0, res.Input.MassTip)
	assert.Equal(t, 900.0, res.Input.ArmLen)
}

func TestScadStdout(t *testing.T) {
	out := run(t, "scad", "-o", "-", "--arm-angle", "90")
	assert.True(t, strings.HasPrefix(out, "pipe_od = 48.6;"))
	assert.Contains(t, out, "// M_arm_2")
}

func TestGrades(t *testing.T) {
	out := run(t, "grades")
	assert.Contains(t, out, "STK400 *")
	assert.Contains(t, out, "SuperLight700")
}
