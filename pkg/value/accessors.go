package value

func kindError(v Value, want Kind) error {
	if v == nil {
		return Mismatch("value: expected %s, got nil", want)
	}
	return Mismatch("value: expected %s, got %s", want, v.Kind())
}

// AsScalar returns v as a Scalar.
func AsScalar(v Value) (*Scalar, error) {
	s, ok := v.(*Scalar)
	if !ok || s == nil {
		return nil, kindError(v, KindScalar)
	}
	return s, nil
}

// AsPoint returns v as a Point.
func AsPoint(v Value) (*Point, error) {
	p, ok := v.(*Point)
	if !ok || p == nil {
		return nil, kindError(v, KindPoint)
	}
	return p, nil
}

// AsParams returns v as Params.
func AsParams(v Value) (*Params, error) {
	p, ok := v.(*Params)
	if !ok || p == nil {
		return nil, kindError(v, KindParams)
	}
	return p, nil
}

// AsSequence returns v as a Sequence of exactly n entries.
// A negative n accepts any length.
func AsSequence(v Value, n int) (Sequence, error) {
	s, ok := v.(Sequence)
	if !ok {
		return nil, kindError(v, KindSequence)
	}
	if n >= 0 {
		if err := s.Expect(n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AsScalars returns v as a Sequence of exactly n Scalars.
func AsScalars(v Value, n int) ([]*Scalar, error) {
	seq, err := AsSequence(v, n)
	if err != nil {
		return nil, err
	}
	out := make([]*Scalar, len(seq))
	for i, entry := range seq {
		if out[i], err = AsScalar(entry); err != nil {
			return nil, err
		}
	}
	return out, nil
}
