package bitvec

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
)

func TestOptionRoundTrip(t *testing.T) {
	none := None
	if _, ok := none.Get(); ok {
		t.Fatalf("None.Get() reported present")
	}

	some := Some(41)
	v, ok := some.Get()
	if !ok || v != 41 {
		t.Fatalf("Some(41).Get() = %d, %v; want 41, true", v, ok)
	}
}

func TestMinTreatsNoneAsIdentity(t *testing.T) {
	if got := Min(None, Some(5)); got != Some(5) {
		t.Fatalf("Min(None, Some(5)) = %v, want Some(5)", got)
	}
	if got := Min(Some(5), None); got != Some(5) {
		t.Fatalf("Min(Some(5), None) = %v, want Some(5)", got)
	}
	if got := Min(Some(3), Some(5)); got != Some(3) {
		t.Fatalf("Min(Some(3), Some(5)) = %v, want Some(3)", got)
	}
}

func TestAddPropagatesNone(t *testing.T) {
	if got := Add(None, Some(5)); got != None {
		t.Fatalf("Add(None, Some(5)) = %v, want None", got)
	}
	if got := Add(Some(2), Some(5)); got != Some(7) {
		t.Fatalf("Add(Some(2), Some(5)) = %v, want Some(7)", got)
	}
}

func TestVectorEncodeDecodeRoundTrip(t *testing.T) {
	vec := NewVector(5)
	vec.Set(0, Some(0))
	vec.Set(1, Some(12345))
	vec.Set(2, None)
	vec.Set(3, Some(1))
	vec.Set(4, Some(70))

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	if err := vec.EncodeTo(w); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}

	r := bitio.NewReader(&buf)
	got, err := DecodeFrom(r)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if got.Len() != vec.Len() {
		t.Fatalf("decoded length = %d, want %d", got.Len(), vec.Len())
	}
	for i := range vec.Values {
		if got.Get(i) != vec.Get(i) {
			t.Errorf("element %d = %v, want %v", i, got.Get(i), vec.Get(i))
		}
	}
}

func TestDecodeFromShortRead(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3})
	r := bitio.NewReader(&buf)
	if _, err := DecodeFrom(r); err != ErrShortRead {
		t.Fatalf("DecodeFrom on truncated input = %v, want ErrShortRead", err)
	}
}

func TestDecodeFromWidthOverflow(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	w.WriteBits(0, 64) // zero-length vector
	w.WriteByte(0)     // invalid width
	w.Close()

	r := bitio.NewReader(&buf)
	if _, err := DecodeFrom(r); err != ErrWidthOverflow {
		t.Fatalf("DecodeFrom with width 0 = %v, want ErrWidthOverflow", err)
	}
}
