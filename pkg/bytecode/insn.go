// Package bytecode models the opaque instruction streams attached to methods
// and provides the similarity metric used by merge-match and the method
// classifier.
package bytecode

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
)

// OperandKind describes what an instruction operand refers to.
type OperandKind int

const (
	KindNone OperandKind = iota
	KindType
	KindMethod
	KindField
	KindVar
	KindConst
	KindString
	KindLabel
)

// Insn is a single instruction with a mnemonic and an optional symbolic
// operand. Operands are fully symbolic (type/member ids, constant values,
// local variable slots) so streams compare independently of constant pool
// layout.
type Insn struct {
	Opcode  string
	Kind    OperandKind
	Operand string
}

// InsnList is an ordered instruction stream.
type InsnList []Insn

// Tokens renders the stream as one token per instruction for sequence
// comparison. Local variable slots and jump labels collapse to fixed
// placeholders so slot reassignment and label renumbering do not count as
// differences.
func (l InsnList) Tokens() []string {
	tokens := make([]string, len(l))

	for i, in := range l {
		switch in.Kind {
		case KindNone:
			tokens[i] = in.Opcode
		case KindVar:
			tokens[i] = in.Opcode + " v"
		case KindLabel:
			tokens[i] = in.Opcode + " L"
		default:
			tokens[i] = in.Opcode + " " + in.Operand
		}
	}

	return tokens
}

// OpcodeHistogram counts instructions per mnemonic.
func (l InsnList) OpcodeHistogram() map[string]int {
	hist := make(map[string]int, 32)

	for _, in := range l {
		hist[in.Opcode]++
	}

	return hist
}

// Refs collects the operands of the given kind as a hash bitmap, suitable for
// cheap overlap comparison between streams.
func (l InsnList) Refs(kind OperandKind) *roaring.Bitmap {
	bm := roaring.New()

	for _, in := range l {
		if in.Kind == kind {
			bm.Add(uint32(xxhash.Sum64String(in.Operand)))
		}
	}

	return bm
}

// Strings returns the string constants loaded by the stream, deduplicated,
// in first-occurrence order.
func (l InsnList) Strings() []string {
	var out []string
	seen := make(map[string]bool)

	for _, in := range l {
		if in.Kind == KindString && !seen[in.Operand] {
			seen[in.Operand] = true
			out = append(out, in.Operand)
		}
	}

	return out
}

func (l InsnList) String() string {
	return strings.Join(l.Tokens(), "; ")
}
