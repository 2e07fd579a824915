package alloc

import (
	"bytes"
	"testing"
)

func TestObjectSizeAndAlignment(t *testing.T) {
	tests := []struct {
		name  string
		obj   Object
		size  int
		align int
	}{
		{"word", Word(1), 4, 4},
		{"float", Float(1.5), 4, 4},
		{"cstring", CString("abc"), 4, 1},
		{"string", String("TSFB"), 4, 1},
		{"empty", Empty(), 0, 1},
		{"raw", Raw(8, make([]byte, 3)), 3, 8},
		{"pointer", Ptr(List(0x20, Word(1), Word(2))), 4, 4},
		{"empty list", List(0x20), 0, 0x20},
		{"nested list", List(4, Word(1), List(0x10, Word(2), Word(3)), CString("x")), 14, 4},
		{"struct with pointers", NewStruct(4,
			Field{Pos: 1, Object: Word(0)},
			Field{Pos: 0, Object: Ptr(CString("long string"))},
		), 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := tt.obj.Alignment(); got != tt.align {
				t.Errorf("Alignment() = %d, want %d", got, tt.align)
			}
		})
	}
}

func TestWordIsBigEndian(t *testing.T) {
	got := Word(0x01020304).Data
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(got, want) {
		t.Errorf("Word(0x01020304) = % x, want % x", got, want)
	}
}

func TestFloatBitPattern(t *testing.T) {
	tests := []struct {
		f    float32
		want []byte
	}{
		{1.0, []byte{0x3f, 0x80, 0x00, 0x00}},
		{-2.0, []byte{0xc0, 0x00, 0x00, 0x00}},
		{0.0, []byte{0x00, 0x00, 0x00, 0x00}},
		{0.5, []byte{0x3f, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		if got := Float(tt.f).Data; !bytes.Equal(got, tt.want) {
			t.Errorf("Float(%v) = % x, want % x", tt.f, got, tt.want)
		}
	}
}

func TestCStringTerminator(t *testing.T) {
	got := CString("Player").Data
	want := []byte("Player\x00")
	if !bytes.Equal(got, want) {
		t.Errorf("CString = %q, want %q", got, want)
	}

	if got := CString("").Data; !bytes.Equal(got, []byte{0}) {
		t.Errorf("CString(\"\") = %q, want single terminator", got)
	}
}

func TestListPositionsAreSequential(t *testing.T) {
	l := List(4, Word(1), Word(2), Word(3))
	for i, f := range l.Fields {
		if f.Pos != i {
			t.Errorf("field %d has Pos %d", i, f.Pos)
		}
	}
}
