package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alphabill-org/digitalcash/internal/fixture"
	"github.com/alphabill-org/digitalcash/internal/logger"
	"github.com/alphabill-org/digitalcash/replay"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

const (
	keyInput  = "input"
	keyOutput = "output"
)

var log = logger.CreateForPackage()

type replayConfig struct {
	Base         *baseConfiguration
	Input        string
	Output       string
	FailOnReject bool
}

// newReplayCmd creates a new cobra command that replays a fixture file.
func newReplayCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &replayConfig{Base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "replay",
		Short: "Replays the transactions of a fixture file on top of its genesis state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayRunFunc(cmd.Context(), cmd.OutOrStdout(), config)
		},
	}
	cmd.Flags().StringVarP(&config.Input, keyInput, "i", "", "path to the fixture file, relative paths are resolved from $CL_HOME if not found")
	cmd.Flags().StringVarP(&config.Output, keyOutput, "o", "", "path to the output state file (default: stdout)")
	cmd.Flags().BoolVar(&config.FailOnReject, "fail-on-reject", false, "return an error if any transaction was rejected")
	if err := cmd.MarkFlagRequired(keyInput); err != nil {
		panic(err)
	}
	return cmd
}

func replayRunFunc(ctx context.Context, out io.Writer, config *replayConfig) error {
	doc, err := fixture.Load(config.Base.resolvePath(config.Input))
	if err != nil {
		return err
	}
	res, err := replay.Replay(ctx, doc.Genesis(), doc.Transactions())
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	for _, o := range res.Outcomes {
		log.Info("%s", o)
	}
	log.Info("accepted %d, rejected %d transactions", res.Stats.Accepted, res.Stats.Rejected)

	if err := writeState(out, config.Output, res); err != nil {
		return err
	}
	if config.FailOnReject {
		if i := slices.IndexFunc(res.Outcomes, func(o replay.Outcome) bool { return !o.Accepted() }); i >= 0 {
			return fmt.Errorf("transaction %d rejected: %w", i, res.Outcomes[i].Err)
		}
	}
	return nil
}

func writeState(out io.Writer, output string, res *replay.Result) (rErr error) {
	w := out
	if output != "" {
		if err := os.MkdirAll(filepath.Dir(output), 0700); err != nil { // -rwx------
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Clean(output), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) // -rw-------
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { rErr = errors.Join(rErr, f.Close()) }()
		w = f
	}
	if err := fixture.EncodeState(w, res.State); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "state hash: %X\n", res.StateHash)
	return err
}

// resolvePath returns p unchanged if it exists or is absolute, otherwise the
// path relative to the home directory.
func (r *baseConfiguration) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(r.HomeDir, p)
}
