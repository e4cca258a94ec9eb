package parse

import "bytes"

// Parser is the uniform shape every grammar production implements: given
// an input slice, return the unconsumed remainder and the decoded value,
// or a *Error (Incomplete or Invalid) if no value could be produced.
type Parser[T any] func(input []byte) (rest []byte, value T, err error)

// Literal matches the exact byte sequence lit at the start of input.
func Literal(input, lit []byte, label string) (rest []byte, err error) {
	if len(input) < len(lit) {
		if bytes.HasPrefix(lit, input) {
			return nil, Incomplete(label, len(input))
		}
		return nil, invalidPrefixMismatch(input, lit, label)
	}
	if !bytes.Equal(input[:len(lit)], lit) {
		return nil, invalidPrefixMismatch(input, lit, label)
	}
	return input[len(lit):], nil
}

// LiteralCI matches lit at the start of input, ASCII case-insensitively.
func LiteralCI(input, lit []byte, label string) (rest []byte, err error) {
	if len(input) < len(lit) {
		if hasPrefixFold(lit, input) {
			return nil, Incomplete(label, len(input))
		}
		return nil, invalidPrefixMismatchFold(input, lit, label)
	}
	if !bytes.EqualFold(input[:len(lit)], lit) {
		return nil, invalidPrefixMismatchFold(input, lit, label)
	}
	return input[len(lit):], nil
}

func hasPrefixFold(s, prefix []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.EqualFold(s[:len(prefix)], prefix)
}

func invalidPrefixMismatch(input, lit []byte, label string) error {
	n := len(input)
	if len(lit) < n {
		n = len(lit)
	}
	for i := 0; i < n; i++ {
		if input[i] != lit[i] {
			return Invalid(label, i)
		}
	}
	return Invalid(label, n)
}

func invalidPrefixMismatchFold(input, lit []byte, label string) error {
	n := len(input)
	if len(lit) < n {
		n = len(lit)
	}
	for i := 0; i < n; i++ {
		if !bytes.EqualFold(input[i:i+1], lit[i:i+1]) {
			return Invalid(label, i)
		}
	}
	return Invalid(label, n)
}

// ByteClass consumes exactly one byte satisfying pred.
func ByteClass(input []byte, pred func(byte) bool, label string) (rest []byte, b byte, err error) {
	if len(input) == 0 {
		return nil, 0, Incomplete(label, 0)
	}
	if !pred(input[0]) {
		return nil, 0, Invalid(label, 0)
	}
	return input[1:], input[0], nil
}

// TakeWhile greedily consumes bytes satisfying pred, requiring at least min
// and at most max (max <= 0 means unbounded). Because this is a streaming
// parser, reaching the end of input while still under max and without
// having hit a disqualifying byte is reported as Incomplete: the grammar
// cannot yet tell whether more matching bytes would follow.
func TakeWhile(input []byte, pred func(byte) bool, min, max int, label string) (rest, matched []byte, err error) {
	n := 0
	for n < len(input) && pred(input[n]) {
		n++
		if max > 0 && n == max {
			return input[n:], input[:n], nil
		}
	}
	if n < len(input) {
		// Stopped because of a disqualifying byte, not end of input.
		if n < min {
			return nil, nil, Invalid(label, n)
		}
		return input[n:], input[:n], nil
	}
	if max > 0 && n >= max {
		return input[n:], input[:n], nil
	}
	return nil, nil, Incomplete(label, n)
}

// Alt tries each parser in order and returns the first success. If every
// parser reports Invalid, Alt reports Invalid under its own label at the
// start of input. If at least one reports Incomplete and none succeed, Alt
// reports Incomplete.
func Alt[T any](input []byte, label string, parsers ...Parser[T]) (rest []byte, value T, err error) {
	var sawIncomplete error
	for _, p := range parsers {
		rest, value, err = p(input)
		if err == nil {
			return rest, value, nil
		}
		if IsIncomplete(err) && sawIncomplete == nil {
			sawIncomplete = err
		}
	}
	if sawIncomplete != nil {
		return nil, value, sawIncomplete
	}
	return nil, value, Invalid(label, 0)
}

// Opt tries p; a Invalid result is treated as "absent" (input untouched,
// zero value, ok=false). An Incomplete result propagates: streaming input
// cannot yet distinguish "absent" from "present but truncated".
func Opt[T any](input []byte, p Parser[T]) (rest []byte, value T, ok bool, err error) {
	r, v, e := p(input)
	if e == nil {
		return r, v, true, nil
	}
	if IsIncomplete(e) {
		var zero T
		return nil, zero, false, e
	}
	var zero T
	return input, zero, false, nil
}

// Repeat applies p repeatedly, stopping at the first Invalid result (or at
// max repetitions, if max > 0). It requires at least min matches. An
// Incomplete result from p propagates immediately: the repetition could
// legitimately continue once more bytes arrive.
func Repeat[T any](input []byte, p Parser[T], min, max int, label string) (rest []byte, values []T, err error) {
	cur := input
	values = make([]T, 0, min)
	for max <= 0 || len(values) < max {
		r, v, e := p(cur)
		if e != nil {
			if IsIncomplete(e) {
				return nil, nil, e
			}
			break
		}
		values = append(values, v)
		cur = r
	}
	if len(values) < min {
		return nil, nil, Invalid(label, len(input)-len(cur))
	}
	return cur, values, nil
}

// Delimited matches left, then p, then right, returning only p's value.
func Delimited[T any](input []byte, left Parser[struct{}], p Parser[T], right Parser[struct{}]) (rest []byte, value T, err error) {
	r, _, e := left(input)
	if e != nil {
		var zero T
		return nil, zero, e
	}
	r, v, e := p(r)
	if e != nil {
		var zero T
		return nil, zero, e
	}
	r, _, e = right(r)
	if e != nil {
		var zero T
		return nil, zero, e
	}
	return r, v, nil
}

// Map transforms a successful parse's value with f.
func Map[T, U any](input []byte, p Parser[T], f func(T) U) (rest []byte, value U, err error) {
	r, v, e := p(input)
	if e != nil {
		var zero U
		return nil, zero, e
	}
	return r, f(v), nil
}

// MapResult transforms a successful parse's value with f, which may itself
// fail; a failure turns the overall result Invalid.
func MapResult[T, U any](input []byte, p Parser[T], label string, f func(T) (U, bool)) (rest []byte, value U, err error) {
	r, v, e := p(input)
	if e != nil {
		var zero U
		return nil, zero, e
	}
	u, ok := f(v)
	if !ok {
		var zero U
		return nil, zero, Invalid(label, len(input)-len(r))
	}
	return r, u, nil
}

// Recognize runs p and returns the bytes it matched instead of its value.
func Recognize[T any](input []byte, p Parser[T]) (rest []byte, matched []byte, err error) {
	r, _, e := p(input)
	if e != nil {
		return nil, nil, e
	}
	return r, input[:len(input)-len(r)], nil
}

// SeparatedList1 parses one or more p, separated by sep. At least one
// match is required.
func SeparatedList1[T any](input []byte, p Parser[T], sep Parser[struct{}], label string) (rest []byte, values []T, err error) {
	r, v, e := p(input)
	if e != nil {
		return nil, nil, e
	}
	values = []T{v}
	cur := r
	for {
		r2, _, e2 := sep(cur)
		if e2 != nil {
			if IsIncomplete(e2) {
				return nil, nil, e2
			}
			break
		}
		r3, v3, e3 := p(r2)
		if e3 != nil {
			if IsIncomplete(e3) {
				return nil, nil, e3
			}
			// sep matched but p did not: the separator was not ours to
			// consume, stop before it.
			break
		}
		values = append(values, v3)
		cur = r3
	}
	return cur, values, nil
}

// Seq2 sequences two parsers, propagating the first failure (Incomplete or
// Invalid) encountered.
func Seq2[A, B any](input []byte, p1 Parser[A], p2 Parser[B]) (rest []byte, a A, b B, err error) {
	r, a, err := p1(input)
	if err != nil {
		return nil, a, b, err
	}
	r, b, err = p2(r)
	if err != nil {
		var zeroA A
		return nil, zeroA, b, err
	}
	return r, a, b, nil
}

// Seq3 sequences three parsers; see Seq2.
func Seq3[A, B, C any](input []byte, p1 Parser[A], p2 Parser[B], p3 Parser[C]) (rest []byte, a A, b B, c C, err error) {
	r, a, b, err := Seq2(input, p1, p2)
	if err != nil {
		return nil, a, b, c, err
	}
	r, c, err = p3(r)
	if err != nil {
		var zeroA A
		var zeroB B
		return nil, zeroA, zeroB, c, err
	}
	return r, a, b, c, nil
}

// Seq4 sequences four parsers; see Seq2.
func Seq4[A, B, C, D any](input []byte, p1 Parser[A], p2 Parser[B], p3 Parser[C], p4 Parser[D]) (rest []byte, a A, b B, c C, d D, err error) {
	r, a, b, c, err := Seq3(input, p1, p2, p3)
	if err != nil {
		return nil, a, b, c, d, err
	}
	r, d, err = p4(r)
	if err != nil {
		var zeroA A
		var zeroB B
		var zeroC C
		return nil, zeroA, zeroB, zeroC, d, err
	}
	return r, a, b, c, d, nil
}

// Seq5 sequences five parsers; see Seq2.
func Seq5[A, B, C, D, E any](input []byte, p1 Parser[A], p2 Parser[B], p3 Parser[C], p4 Parser[D], p5 Parser[E]) (rest []byte, a A, b B, c C, d D, e E, err error) {
	r, a, b, c, d, err := Seq4(input, p1, p2, p3, p4)
	if err != nil {
		return nil, a, b, c, d, e, err
	}
	r, e, err = p5(r)
	if err != nil {
		var zeroA A
		var zeroB B
		var zeroC C
		var zeroD D
		return nil, zeroA, zeroB, zeroC, zeroD, e, err
	}
	return r, a, b, c, d, e, nil
}
