package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

var (
	proofCount int
	simulate   bool
)

var proveCmd = &cobra.Command{
	Use:   "prove EXPRESSION",
	Short: "Prove random statements for a protocol expression",
	Long: `Prove draws random witnesses for every leaf of the expression, runs the
prover against a locally sampled challenge and verifies the transcripts
concurrently. OR and THRESHOLD nodes prove randomly chosen branches and
simulate the others.

With --simulate the transcripts are produced by the simulator instead,
without using any witness.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := sigma.Parse(args[0], nil)
		if err != nil {
			return err
		}
		cfg := getConfig()
		return run(cmd.Context(), cmd.OutOrStdout(), cfg, p, cfg.source())
	},
}

func init() {
	proveCmd.Flags().IntVarP(&proofCount, "count", "n", 1, "number of independent proofs")
	proveCmd.Flags().BoolVar(&simulate, "simulate", false, "simulate the transcripts instead of proving")
}

func run(ctx context.Context, out io.Writer, cfg *Config, p sigma.Protocol, rand io.Reader) error {
	if proofCount < 1 {
		return errors.Errorf("count must be positive, got %d", proofCount)
	}
	group := curve.Secp256k1{}
	gen := newGenerator(rand, group)
	instances := make([]sigma.Instance, proofCount)
	for i := range instances {
		s, err := gen.generate(p)
		if err != nil {
			return err
		}
		var t *sigma.Transcript
		if simulate {
			challenge := value.NewScalar(sample.Challenge(rand, group))
			t, err = sigma.Simulate(p, s.simulator, s.env, challenge)
		} else {
			t, err = sigma.Prove(rand, group, p, s.prover, s.env)
		}
		if err != nil {
			return errors.WrapPrefix(err, fmt.Sprintf("proof %d", i), 0)
		}
		instances[i] = sigma.Instance{Protocol: p, Input: s.public, Environment: s.env, Transcript: t}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := sigma.VerifyAll(ctx, cfg.Workers, instances); err != nil {
		return err
	}
	for i, instance := range instances {
		if err := report(out, i, instance); err != nil {
			return err
		}
	}
	return nil
}

func report(out io.Writer, i int, instance sigma.Instance) error {
	t := instance.Transcript
	digest, err := t.Digest(instance.Protocol)
	if err != nil {
		return err
	}
	encoded, err := value.Marshal(value.Of(t.Commitment, t.Challenge, t.Response))
	if err != nil {
		return err
	}
	sigma.Logger.WithFields(logrus.Fields{
		"protocol": instance.Protocol.String(),
		"proof":    i,
	}).Debugf("response %v", t.Response)
	_, err = fmt.Fprintf(out, "%s proof %d accepted, transcript %x (%d bytes)\n",
		instance.Protocol, i, digest[:16], len(encoded))
	return err
}
