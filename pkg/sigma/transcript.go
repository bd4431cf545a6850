package sigma

import (
	"context"
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/taurusgroup/sigmaproofs/internal/hash"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
	"golang.org/x/sync/errgroup"
)

// Transcript holds the three messages of one run of a protocol.
type Transcript struct {
	Commitment value.Value
	Challenge  *value.Scalar
	Response   value.Value
}

// Digest fingerprints the transcript of a run of p.
func (t *Transcript) Digest(p Protocol) ([]byte, error) {
	if t.Challenge == nil {
		return nil, value.Mismatch("transcript: missing challenge")
	}
	h := hash.New("sigma.Transcript")
	if err := h.WriteAny(p.String(), t.Commitment, t.Challenge, t.Response); err != nil {
		return nil, errors.WrapPrefix(err, "transcript", 0)
	}
	return h.Sum(), nil
}

// Prove runs a complete proof locally, playing the verifier by sampling the
// challenge from rand.
func Prove(rand io.Reader, group curve.Curve, p Protocol, input, env value.Value) (*Transcript, error) {
	if err := value.CheckEnvironment(env); err != nil {
		return nil, err
	}
	commitment, err := p.InitialComm(input, env)
	if err != nil {
		return nil, err
	}
	challenge := value.NewScalar(sample.Challenge(rand, group))
	response, err := p.CalcResponse(input, env, challenge)
	if err != nil {
		return nil, err
	}
	return &Transcript{Commitment: commitment, Challenge: challenge, Response: response}, nil
}

// Simulate returns an accepting transcript for the given challenge, without
// using any witness.
func Simulate(p Protocol, input, env value.Value, challenge *value.Scalar) (*Transcript, error) {
	if err := value.CheckEnvironment(env); err != nil {
		return nil, err
	}
	commitment, err := p.InitialCommSim(input, env, challenge)
	if err != nil {
		return nil, err
	}
	response, err := p.SimulatorGetResponse(input, challenge)
	if err != nil {
		return nil, err
	}
	return &Transcript{Commitment: commitment, Challenge: challenge, Response: response}, nil
}

// Verify checks a transcript against the public input.
//
// It returns a structural error if the environment is malformed, and
// ErrVerificationFailed if the transcript is rejected.
func Verify(p Protocol, input, env value.Value, t *Transcript) error {
	if err := value.CheckEnvironment(env); err != nil {
		return err
	}
	if t == nil || !p.VerifyResponse(input, env, t.Commitment, t.Challenge, t.Response) {
		return errors.WrapPrefix(ErrVerificationFailed, p.String(), 0)
	}
	return nil
}

// Instance is a proof to be checked by VerifyAll.
type Instance struct {
	Protocol    Protocol
	Input       value.Value
	Environment value.Value
	Transcript  *Transcript
}

// VerifyAll verifies independent instances concurrently, using at most
// workers goroutines, or one per instance if workers is not positive.
// It returns the first failure encountered.
func VerifyAll(ctx context.Context, workers int, instances []Instance) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range instances {
		instance := instances[i]
		index := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Verify(instance.Protocol, instance.Input, instance.Environment, instance.Transcript); err != nil {
				return errors.WrapPrefix(err, fmt.Sprintf("instance %d", index), 0)
			}
			return nil
		})
	}
	return g.Wait()
}
