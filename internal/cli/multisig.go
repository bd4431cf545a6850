package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/multisig"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

var (
	parties      int
	threshold    int
	construction string
)

var multisigCmd = &cobra.Command{
	Use:   "multisig",
	Short: "Prove knowledge of k out of n secret keys",
	Long: `Multisig generates n key pairs, proves knowledge of k randomly chosen
secret keys and verifies the proof.

The naive construction proves an OR over all subsets of k keys and grows
with C(n, k). The threshold construction uses a single THRESHOLD node. The
keycount construction commits to one bit per key and proves that the bits
are backed by secret keys and sum to k.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		return runMultisig(cmd.Context(), cmd.OutOrStdout(), cfg.source())
	},
}

func init() {
	flags := multisigCmd.Flags()
	flags.IntVarP(&parties, "parties", "n", 3, "number of keys")
	flags.IntVarP(&threshold, "threshold", "k", 2, "number of known secret keys")
	flags.StringVar(&construction, "construction", "threshold", "naive, threshold or keycount")
}

func newBuilder(rand io.Reader, params *value.Params, positions []int) (multisig.Builder, error) {
	switch construction {
	case "naive":
		return multisig.NewNaive(parties, threshold, params, multisig.NewBinomials(parties))
	case "threshold":
		return multisig.NewThreshold(parties, threshold, params, nil)
	case "keycount":
		b, err := multisig.NewKeyCount(parties, threshold, params, params.Group().HashToPoint("sigma cli H"))
		if err != nil {
			return nil, err
		}
		tally, err := b.Commit(rand, positions)
		if err != nil {
			return nil, err
		}
		return b.Bind(tally), nil
	}
	return nil, errors.Errorf("unknown construction %q", construction)
}

func runMultisig(ctx context.Context, out io.Writer, rand io.Reader) error {
	group := curve.Secp256k1{}
	params := value.BaseParams(group)
	if parties < 1 || threshold < 1 || threshold > parties {
		return errors.Errorf("cannot prove %d out of %d", threshold, parties)
	}

	publicKeys := make([]curve.Point, parties)
	secretKeys := make([]curve.Scalar, parties)
	for i := range publicKeys {
		secretKeys[i], publicKeys[i] = sample.ScalarPointPair(rand, group)
	}
	gen := &generator{rand: rand, params: params}
	secrets := make(map[int]curve.Scalar, threshold)
	positions := make([]int, 0, threshold)
	for i := range gen.choose(parties, threshold) {
		secrets[i] = secretKeys[i]
		positions = append(positions, i)
	}
	b, err := newBuilder(rand, params, positions)
	if err != nil {
		return err
	}

	p := b.Protocol()
	env := b.Environment()
	prover, err := b.ProverInput(rand, publicKeys, secrets)
	if err != nil {
		return err
	}
	public, err := b.PublicInput(publicKeys)
	if err != nil {
		return err
	}
	t, err := sigma.Prove(rand, group, p, prover, env)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	instance := sigma.Instance{Protocol: p, Input: public, Environment: env, Transcript: t}
	if err := sigma.VerifyAll(ctx, 1, []sigma.Instance{instance}); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s %d-of-%d\n", construction, threshold, parties); err != nil {
		return err
	}
	return report(out, 0, instance)
}
