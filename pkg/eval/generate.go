package eval

import (
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// ListBuilder accumulates the elements a list literal's generators emit
// (spec.md §4.4: `for`/`while`/`if` generators and `...` spread all append
// zero or more elements to the list under construction).
type ListBuilder struct {
	Elements []value.Value
}

func NewListBuilder() *ListBuilder { return &ListBuilder{} }

func (b *ListBuilder) Emit(v value.Value) error {
	b.Elements = append(b.Elements, v)
	return nil
}

// generateInto runs op as a generator, emitting into out. Operations that
// don't implement Generator are treated as a single-value generator: Eval
// once and Emit the result (spec.md §4.4's "any expression is a generator
// of exactly one element").
func generateInto(op Operation, f *Frame, out *ListBuilder) error {
	if g, ok := op.(Generator); ok {
		return g.Generate(f, out)
	}
	v, err := op.Eval(f)
	if err != nil {
		return err
	}
	return out.Emit(v)
}

// execOp runs op for effect only, discarding any value it produces. Used
// for statement position in `do`/`let ... in` action sequences (spec.md
// §4.3 Do, Block).
func execOp(op Operation, f *Frame) error {
	if a, ok := op.(Action); ok {
		return a.Exec(f)
	}
	_, err := op.Eval(f)
	return err
}

// ---- Block: a sequence of action Operations followed by a final value
// Operation (spec.md §4.3 Do, §4.4 sequencing). ----

type Block struct {
	base
	Actions []Operation
	Result  Operation // nil => Block evaluates to value.Null
}

func NewBlock(loc location.Location, actions []Operation, result Operation) *Block {
	pure := true
	for _, a := range actions {
		pure = pure && a.Pure()
	}
	if result != nil {
		pure = pure && result.Pure()
	}
	return &Block{base: base{L: loc, IsPure: pure}, Actions: actions, Result: result}
}

func (b *Block) Eval(f *Frame) (value.Value, error) {
	for _, a := range b.Actions {
		if err := execOp(a, f); err != nil {
			return value.Value{}, err
		}
	}
	if b.Result == nil {
		return value.Null, nil
	}
	return b.Result.Eval(f)
}

func (b *Block) Generate(f *Frame, out *ListBuilder) error {
	for _, a := range b.Actions {
		if err := execOp(a, f); err != nil {
			return err
		}
	}
	if b.Result == nil {
		return nil
	}
	return generateInto(b.Result, f, out)
}
