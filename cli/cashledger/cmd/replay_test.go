package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alphabill-org/digitalcash/internal/fixture"
	"github.com/alphabill-org/digitalcash/txsystem/cash"
	"github.com/stretchr/testify/require"
)

const sequenceFile = "testdata/sequence.yaml"

func execute(t *testing.T, args string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := New()
	cmd.baseCmd.SetOut(out)
	cmd.baseCmd.SetErr(errOut)
	cmd.baseCmd.SetArgs(strings.Split(args, " "))
	err := cmd.addAndExecuteCommand(context.Background())
	return out.String(), errOut.String(), err
}

func expectedState() *cash.State {
	s := cash.NewStateFromBills(
		cash.NewBill("Alice", 20, 0),
		cash.NewBill("Alice", 4000, 58),
		cash.NewBill("Bob", 7, 59),
		cash.NewBill("Bob", 5, 60),
		cash.NewBill("Alice", 42, 61),
	)
	s.SetSerial(62)
	return s
}

func TestReplay_OutputFile(t *testing.T) {
	homeDir := t.TempDir()
	output := filepath.Join(homeDir, "out", "state.yaml")
	stdout, stderr, err := execute(t, "replay --home "+homeDir+" --input "+sequenceFile+" --output "+output)
	require.NoError(t, err)
	require.FileExists(t, output)
	require.Contains(t, stderr, "accepted 2, rejected 1 transactions")

	doc, err := fixture.Load(output)
	require.NoError(t, err)
	require.True(t, expectedState().Equal(doc.Genesis()), "got %s", doc.Genesis())

	require.True(t, strings.HasPrefix(stdout, "state hash: "))
	require.NotContains(t, stdout, "bills:")
}

func TestReplay_Stdout(t *testing.T) {
	stdout, _, err := execute(t, "replay --home "+t.TempDir()+" -i "+sequenceFile)
	require.NoError(t, err)
	require.Contains(t, stdout, "nextSerial: 62")
	require.Contains(t, stdout, "state hash: ")
}

func TestReplay_InputRelativeToHome(t *testing.T) {
	homeDir := t.TempDir()
	data, err := os.ReadFile(sequenceFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, "home-sequence.yaml"), data, 0600))

	stdout, _, err := execute(t, "replay --home "+homeDir+" --input home-sequence.yaml")
	require.NoError(t, err)
	require.Contains(t, stdout, "nextSerial: 62")
}

func TestReplay_FailOnReject(t *testing.T) {
	_, _, err := execute(t, "replay --home "+t.TempDir()+" --input "+sequenceFile+" --fail-on-reject")
	require.ErrorIs(t, err, cash.ErrReceiveExceedsSpend)
	require.ErrorContains(t, err, "transaction 2 rejected")
}

func TestReplay_InputRequired(t *testing.T) {
	_, _, err := execute(t, "replay --home "+t.TempDir())
	require.ErrorContains(t, err, `required flag(s) "input" not set`)
}

func TestReplay_InputNotFound(t *testing.T) {
	_, _, err := execute(t, "replay --home "+t.TempDir()+" --input missing.yaml")
	require.ErrorContains(t, err, "failed to open fixture file")
}

func TestReplay_LoggerConfigNotFound(t *testing.T) {
	homeDir := t.TempDir()
	_, _, err := execute(t, "replay --home "+homeDir+" --input "+sequenceFile+" --logger-config missing.yaml")
	require.ErrorContains(t, err, "opening logger configuration file")
}

func TestReplay_LoggerConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	logFile := filepath.Join(homeDir, "cashledger.log")
	cfg := "defaultLevel: INFO\noutputPath: " + logFile + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, defaultLoggerConfigFile), []byte(cfg), 0600))

	_, stderr, err := execute(t, "replay --home "+homeDir+" --input "+sequenceFile)
	require.NoError(t, err)
	require.Empty(t, stderr)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "rejected 1 transactions")
}

func TestReplay_LogLevelFlag(t *testing.T) {
	_, stderr, err := execute(t, "replay --home "+t.TempDir()+" --input "+sequenceFile+" --log-level error")
	require.NoError(t, err)
	require.NotContains(t, stderr, "rejected 1 transactions")
}

func TestReplay_TraceLevelListsLoggers(t *testing.T) {
	_, stderr, err := execute(t, "replay --home "+t.TempDir()+" --input "+sequenceFile+" --log-level trace")
	require.NoError(t, err)
	require.Contains(t, stderr, "cli_cashledger_cmd - TRACE")
	require.Contains(t, stderr, "txsystem - TRACE")
}
