package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/alphabill-org/digitalcash/internal/fixture"
	"github.com/alphabill-org/digitalcash/replay"
	"github.com/spf13/cobra"
)

const (
	keyReplicas     = "replicas"
	defaultReplicas = 4
)

type verifyConfig struct {
	Base     *baseConfiguration
	Input    string
	Replicas int
}

// newVerifyCmd creates a new cobra command that checks replicas agree on the replayed state.
func newVerifyCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &verifyConfig{Base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "verify",
		Short: "Replays a fixture file on independent replicas and checks that all of them reach the same state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyRunFunc(cmd.Context(), cmd.OutOrStdout(), config)
		},
	}
	cmd.Flags().StringVarP(&config.Input, keyInput, "i", "", "path to the fixture file, relative paths are resolved from $CL_HOME if not found")
	cmd.Flags().IntVarP(&config.Replicas, keyReplicas, "n", defaultReplicas, "number of replicas")
	if err := cmd.MarkFlagRequired(keyInput); err != nil {
		panic(err)
	}
	return cmd
}

func verifyRunFunc(ctx context.Context, out io.Writer, config *verifyConfig) error {
	doc, err := fixture.Load(config.Base.resolvePath(config.Input))
	if err != nil {
		return err
	}
	res, err := replay.VerifyReplicas(ctx, doc.Genesis(), doc.Transactions(), config.Replicas)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	log.Info("%d replicas converged after %d transactions", config.Replicas, len(res.Outcomes))
	_, err = fmt.Fprintf(out, "%d replicas converged, state hash: %X\n", config.Replicas, res.StateHash)
	return err
}
