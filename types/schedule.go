package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Cyclic is a direction schedule that is advanced once per top level cycle.
// A schedule of length one is a fixed direction.
type Cyclic[T ~uint8] struct {
	Seq []T
	pos int
}

func NewCyclic[T ~uint8](seq ...T) *Cyclic[T] {
	if len(seq) == 0 {
		panic("empty direction schedule")
	}
	return &Cyclic[T]{Seq: seq}
}

func (c *Cyclic[T]) Current() T { return c.Seq[c.pos] }

func (c *Cyclic[T]) Len() int { return len(c.Seq) }

func (c *Cyclic[T]) IsCyclic() bool { return len(c.Seq) > 1 }

func (c *Cyclic[T]) Advance() {
	c.pos = (c.pos + 1) % len(c.Seq)
}

func (c *Cyclic[T]) String() string {
	var sb strings.Builder
	for _, v := range c.Seq {
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}

/*
ParseSemicoarsening converts the user schedule into semicoarsening codes:
	"", "false", "0" = full coarsening
	"true"           = cycle through 1, 2, 3 (skip x, skip y, skip z)
	"N"              = fixed code N in 0..7
	"1213"           = cycle through the listed codes
*/
func ParseSemicoarsening(desc string) (sc *Cyclic[SemicoarseAxis], err error) {
	var codes []uint8
	switch s := strings.ToLower(strings.TrimSpace(desc)); s {
	case "", "false":
		codes = []uint8{0}
	case "true":
		codes = []uint8{1, 2, 3}
	default:
		if codes, err = parseDigits(s); err != nil {
			err = fmt.Errorf("semicoarsening %q: %w", desc, err)
			return
		}
	}
	seq := make([]SemicoarseAxis, len(codes))
	for i, c := range codes {
		seq[i] = SemicoarseAxis(c)
	}
	sc = NewCyclic(seq...)
	return
}

/*
ParseLineRelaxation converts the user schedule into line relaxation codes:
	"", "false", "0" = point relaxation
	"true"           = cycle through 4, 5, 6 (yz, xz, xy)
	"N"              = fixed code N in 0..7
	"4565"           = cycle through the listed codes
*/
func ParseLineRelaxation(desc string) (lr *Cyclic[LineRelaxAxes], err error) {
	var codes []uint8
	switch s := strings.ToLower(strings.TrimSpace(desc)); s {
	case "", "false":
		codes = []uint8{0}
	case "true":
		codes = []uint8{4, 5, 6}
	default:
		if codes, err = parseDigits(s); err != nil {
			err = fmt.Errorf("line relaxation %q: %w", desc, err)
			return
		}
	}
	seq := make([]LineRelaxAxes, len(codes))
	for i, c := range codes {
		seq[i] = LineRelaxAxes(c)
	}
	lr = NewCyclic(seq...)
	return
}

func parseDigits(s string) (codes []uint8, err error) {
	for _, r := range s {
		if r < '0' || r > '7' {
			err = fmt.Errorf("invalid direction code %q, each digit must be in 0..7", r)
			return nil, err
		}
		codes = append(codes, uint8(r-'0'))
	}
	return
}
