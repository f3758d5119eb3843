package ndimage

import (
	"bytes"
	"testing"
)

func TestParseDType(t *testing.T) {
	tests := []struct {
		in      string
		want    DType
		wantErr bool
	}{
		{"int16", Int16, false},
		{" UINT8 ", Uint8, false},
		{"float64", Float64, false},
		{"complex128", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDType(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDType(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDType(%q): got %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDType_ItemSize(t *testing.T) {
	sizes := map[DType]int{
		Uint8: 1, Int8: 1, Uint16: 2, Int16: 2,
		Uint32: 4, Int32: 4, Float32: 4,
		Uint64: 8, Int64: 8, Float64: 8,
	}
	for d, want := range sizes {
		if got := d.ItemSize(); got != want {
			t.Errorf("%s.ItemSize(): got %d, want %d", d, got, want)
		}
	}
	if DType("bogus").ItemSize() != 0 {
		t.Error("unknown dtype should have item size 0")
	}
}

func TestNewArray(t *testing.T) {
	a, err := NewArray([]int{3, 4}, Int16)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	if a.Rank() != 2 {
		t.Errorf("Rank: got %d, want 2", a.Rank())
	}
	if a.Len() != 12 {
		t.Errorf("Len: got %d, want 12", a.Len())
	}
	if len(a.Data) != 24 {
		t.Errorf("Data length: got %d, want 24", len(a.Data))
	}
}

func TestNewArray_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		dtype DType
	}{
		{"zero dim", []int{0, 4}, Uint8},
		{"negative dim", []int{4, -1}, Uint8},
		{"bad dtype", []int{4, 4}, DType("bool")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewArray(tt.shape, tt.dtype); err == nil {
				t.Error("NewArray should fail")
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	a, err := FromBytes([]int{2, 2}, Uint8, data)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}

	// The array must not alias the caller's buffer.
	data[0] = 99
	if a.Data[0] != 1 {
		t.Errorf("FromBytes aliased input buffer")
	}

	if _, err := FromBytes([]int{2, 2}, Int16, []byte{1, 2, 3}); err == nil {
		t.Error("FromBytes should reject a short buffer")
	}
}

func TestArray_BytesIsCopy(t *testing.T) {
	a, _ := FromBytes([]int{2}, Uint8, []byte{7, 8})
	b := a.Bytes()
	if !bytes.Equal(b, []byte{7, 8}) {
		t.Fatalf("Bytes: got %v", b)
	}
	b[0] = 0
	if a.Data[0] != 7 {
		t.Error("Bytes returned an aliased buffer")
	}
}

func TestArray_FloatRoundTrip(t *testing.T) {
	dtypes := []DType{Uint8, Int8, Uint16, Int16, Uint32, Int32, Uint64, Int64, Float32, Float64}
	for _, d := range dtypes {
		t.Run(d.String(), func(t *testing.T) {
			a, err := NewArray([]int{2}, d)
			if err != nil {
				t.Fatalf("NewArray failed: %v", err)
			}
			a.SetFloat(1, 42)
			if got := a.Float(1); got != 42 {
				t.Errorf("Float(1): got %v, want 42", got)
			}
			if got := a.Float(0); got != 0 {
				t.Errorf("Float(0): got %v, want 0", got)
			}
		})
	}
}

func TestArray_LittleEndian(t *testing.T) {
	a, _ := NewArray([]int{1}, Int16)
	a.SetFloat(0, -2)
	if !bytes.Equal(a.Data, []byte{0xfe, 0xff}) {
		t.Errorf("int16 -2 encoded as %x, want feff", a.Data)
	}
}

func TestArray_RankZero(t *testing.T) {
	a, err := NewArray([]int{}, Int16)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len: got %d, want 1", a.Len())
	}
	if len(a.Data) != a.Len()*Int16.ItemSize() {
		t.Errorf("buffer holds %d bytes for %d elements", len(a.Data), a.Len())
	}
}
