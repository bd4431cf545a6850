package sigma

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
)

// ParseOptions configures Parse.
type ParseOptions struct {
	// Group provides the default field prime of THRESHOLD nodes: its order.
	// Defaults to secp256k1.
	Group curve.Curve
	// FieldPrime overrides the field prime of THRESHOLD nodes.
	FieldPrime *saferith.Modulus
}

func (o *ParseOptions) fieldPrime() *saferith.Modulus {
	if o != nil && o.FieldPrime != nil {
		return o.FieldPrime
	}
	if o != nil && o.Group != nil {
		return o.Group.Order()
	}
	return curve.Secp256k1{}.Order()
}

// Parse builds a protocol tree from an expression such as
//
//	AND(OR(DL, DL), PEDERSEN, THRESHOLD[2](DL, EQLOGS, DL))
//
// Keywords are case insensitive. THRESHOLD nodes are built with
// NewThreshold and may therefore be simplified to OR or AND.
func Parse(expr string, opts *ParseOptions) (Protocol, error) {
	p := &parser{field: opts.fieldPrime()}
	p.s.Init(strings.NewReader(expr))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	p.s.Error = func(_ *scanner.Scanner, msg string) {
		p.fail(msg)
	}
	p.next()
	out := p.protocol()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(fmt.Sprintf("unexpected %q", p.s.TokenText()))
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

type parser struct {
	s     scanner.Scanner
	tok   rune
	field *saferith.Modulus
	err   error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) fail(msg string) {
	if p.err == nil {
		p.err = wrap(ErrInvalidExpression, "%s: %s", p.s.Position, msg)
	}
}

func (p *parser) expect(tok rune) {
	if p.err != nil {
		return
	}
	if p.tok != tok {
		p.fail(fmt.Sprintf("expected %q, got %q", tok, p.s.TokenText()))
		return
	}
	p.next()
}

func (p *parser) protocol() Protocol {
	if p.err != nil {
		return nil
	}
	if p.tok != scanner.Ident {
		p.fail(fmt.Sprintf("expected a protocol, got %q", p.s.TokenText()))
		return nil
	}
	name := strings.ToUpper(p.s.TokenText())
	p.next()
	switch name {
	case "DL":
		return Atomic{Relation: DiscreteLog}
	case "PEDERSEN":
		return Atomic{Relation: PedersenOpening}
	case "EQLOGS":
		return Atomic{Relation: EqualDiscreteLogs}
	case "AND":
		return NewAnd(p.children()...)
	case "OR":
		return NewOr(p.children()...)
	case "THRESHOLD":
		p.expect('[')
		k := p.integer()
		p.expect(']')
		children := p.children()
		if p.err != nil {
			return nil
		}
		out, err := NewThreshold(k, p.field, children...)
		if err != nil {
			p.fail(err.Error())
			return nil
		}
		return out
	}
	p.fail(fmt.Sprintf("unknown protocol %q", name))
	return nil
}

func (p *parser) integer() int {
	if p.err != nil {
		return 0
	}
	if p.tok != scanner.Int {
		p.fail(fmt.Sprintf("expected an integer, got %q", p.s.TokenText()))
		return 0
	}
	k, err := strconv.Atoi(p.s.TokenText())
	if err != nil {
		p.fail(err.Error())
		return 0
	}
	p.next()
	return k
}

func (p *parser) children() []Protocol {
	p.expect('(')
	var children []Protocol
	for p.err == nil {
		children = append(children, p.protocol())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(')')
	if p.err == nil && len(children) == 0 {
		p.fail("empty composition")
	}
	return children
}
