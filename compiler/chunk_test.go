package compiler

import (
	"testing"

	"lox/value"
)

func TestWriteKeepsCodeAndLinesParallel(t *testing.T) {
	chunk := NewChunk()
	chunk.Write(byte(OP_NIL), 1)
	chunk.Write(byte(OP_NOT), 1)
	chunk.Write(byte(OP_RETURN), 2)

	if len(chunk.Code) != len(chunk.Lines) {
		t.Fatalf("len(Code) = %d, len(Lines) = %d, want equal", len(chunk.Code), len(chunk.Lines))
	}
	wantCode := []byte{byte(OP_NIL), byte(OP_NOT), byte(OP_RETURN)}
	wantLines := []uint16{1, 1, 2}
	for i := range wantCode {
		if chunk.Code[i] != wantCode[i] {
			t.Errorf("Code[%d] = %d, want %d", i, chunk.Code[i], wantCode[i])
		}
		if chunk.Lines[i] != wantLines[i] {
			t.Errorf("Lines[%d] = %d, want %d", i, chunk.Lines[i], wantLines[i])
		}
	}
}

func TestWriteGrowthPolicy(t *testing.T) {
	chunk := NewChunk()

	chunk.Write(0, 1)
	if cap(chunk.Code) != 8 {
		t.Errorf("cap after first write = %d, want 8", cap(chunk.Code))
	}

	for i := 0; i < 8; i++ {
		chunk.Write(byte(i), 1)
	}
	if cap(chunk.Code) != 16 {
		t.Errorf("cap after ninth write = %d, want 16", cap(chunk.Code))
	}
	if cap(chunk.Lines) != cap(chunk.Code) {
		t.Errorf("cap(Lines) = %d, cap(Code) = %d, want equal", cap(chunk.Lines), cap(chunk.Code))
	}
	if len(chunk.Code) != 9 {
		t.Errorf("len(Code) = %d, want 9", len(chunk.Code))
	}
}

func TestAddConstantReturnsIndex(t *testing.T) {
	chunk := NewChunk()
	for i := 0; i < 10; i++ {
		idx := chunk.AddConstant(value.Number(float64(i)))
		if idx != i {
			t.Errorf("AddConstant #%d returned index %d", i, idx)
		}
	}
	if len(chunk.Constants) != 10 {
		t.Errorf("len(Constants) = %d, want 10", len(chunk.Constants))
	}
	if !chunk.Constants[3].Equals(value.Number(3)) {
		t.Errorf("Constants[3] = %v, want 3", chunk.Constants[3])
	}
}
