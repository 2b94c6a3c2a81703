package compute

// Transform derives a value from the results pushed since the previous
// transform. get resolves any Value against the running context.
type Transform func(get Getter, args ...any) any

type opcode int

const (
	opPush opcode = iota
	opResolve
	opApply
)

type instruction struct {
	op        opcode
	literal   any
	value     Value
	transform Transform
}

// Computation is a compiled fold over literals, values and transforms.
type Computation struct {
	program []instruction
}

// Compute compiles its arguments. Values are resolved, Transforms (or plain
// func(...any) any) are applied, and anything else is pushed as a literal.
func Compute(args ...any) *Computation {
	c := &Computation{program: make([]instruction, 0, len(args))}
	for _, arg := range args {
		switch v := arg.(type) {
		case Value:
			c.program = append(c.program, instruction{op: opResolve, value: v})
		case Transform:
			c.program = append(c.program, instruction{op: opApply, transform: v})
		case func(Getter, ...any) any:
			c.program = append(c.program, instruction{op: opApply, transform: v})
		case func(...any) any:
			fn := v
			c.program = append(c.program, instruction{op: opApply, transform: func(_ Getter, args ...any) any {
				return fn(args...)
			}})
		default:
			c.program = append(c.program, instruction{op: opPush, literal: v})
		}
	}
	return c
}

func (c *Computation) Kind() Kind { return KindComputation }
func (c *Computation) sealed()    {}

// Resolve runs the fold and returns the last pushed result.
func (c *Computation) Resolve(ctx Context) (any, error) {
	var getErr error
	get := func(v Value) any {
		if v == nil {
			return nil
		}
		out, err := v.Resolve(ctx)
		if err != nil && getErr == nil {
			getErr = err
		}
		return out
	}

	results := make([]any, 0, len(c.program))
	window := 0
	for i, in := range c.program {
		switch in.op {
		case opPush:
			results = append(results, in.literal)
		case opResolve:
			out, err := in.value.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, out)
		case opApply:
			args := append([]any(nil), results[window:i]...)
			out := in.transform(get, args...)
			if getErr != nil {
				return nil, getErr
			}
			results = append(results, out)
			window = i
		}
	}

	if len(results) == 0 {
		return nil, nil
	}
	return results[len(results)-1], nil
}
