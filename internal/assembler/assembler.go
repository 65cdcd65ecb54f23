// Package assembler serializes a compiled program to the flat byte layout
// the virtual machine loads: the constant pool first, one STORE_CONST record
// per entry, followed by the instruction stream. Integers are 32-bit little
// endian, numbers are IEEE 754 doubles and strings carry a 32-bit length
// prefix.
package assembler

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/clear-lang/clearc/internal/bytecode"
)

// Assemble encodes program as a compiled artifact.
func Assemble(program *bytecode.Program) []byte {
	var buf bytes.Buffer
	for _, constant := range program.Pool.Constants() {
		buf.WriteByte(byte(bytecode.StoreConst))
		switch constant.Kind {
		case bytecode.ConstInt:
			buf.WriteByte(byte(bytecode.Integer))
			var encoded [4]byte
			binary.LittleEndian.PutUint32(encoded[:], uint32(constant.Int))
			buf.Write(encoded[:])
		case bytecode.ConstNum:
			buf.WriteByte(byte(bytecode.Number))
			var encoded [8]byte
			binary.LittleEndian.PutUint64(encoded[:], math.Float64bits(constant.Num))
			buf.Write(encoded[:])
		case bytecode.ConstStr:
			buf.WriteByte(byte(bytecode.String))
			var length [4]byte
			binary.LittleEndian.PutUint32(length[:], uint32(len(constant.Str)))
			buf.Write(length[:])
			buf.WriteString(constant.Str)
		}
	}
	buf.Write(program.Code)
	return buf.Bytes()
}
