package intfunc

import (
	"testing"

	"github.com/matzehuels/homcount/pkg/errors"
)

func TestDigit(t *testing.T) {
	tests := []struct {
		n, f, s uint64
		want    uint64
	}{
		{4, 30, 1, 3},
		{4, 28, 0, 0},
		{4, 59, 1, 2},
		{10, 4321, 2, 3},
		{1, 0, 5, 0},
	}

	for _, tt := range tests {
		if got := Digit(tt.n, tt.f, tt.s); got != tt.want {
			t.Errorf("Digit(%d, %d, %d) = %d, want %d", tt.n, tt.f, tt.s, got, tt.want)
		}
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		n, f, s, v uint64
		want       uint64
	}{
		{4, 15, 1, 2, 59},
		{4, 0, 2, 3, 48},
		{10, 42, 0, 7, 427},
		{10, 42, 2, 1, 142},
		{0, 0, 0, 0, 0},
		{0, 0, 3, 0, 0},
	}

	for _, tt := range tests {
		if got := Insert(tt.n, tt.f, tt.s, tt.v); got != tt.want {
			t.Errorf("Insert(%d, %d, %d, %d) = %d, want %d", tt.n, tt.f, tt.s, tt.v, got, tt.want)
		}
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		n, f, s uint64
		want    uint64
	}{
		{4, 59, 0, 14},
		{4, 15, 1, 3},
		{10, 4321, 1, 431},
		{10, 4321, 3, 321},
		{0, 0, 2, 0},
	}

	for _, tt := range tests {
		if got := Remove(tt.n, tt.f, tt.s); got != tt.want {
			t.Errorf("Remove(%d, %d, %d) = %d, want %d", tt.n, tt.f, tt.s, got, tt.want)
		}
	}
}

func TestInsertRoundTrip(t *testing.T) {
	for n := uint64(1); n <= 6; n++ {
		for s := uint64(0); s <= 3; s++ {
			limit := Count(s+1, n)
			for f := uint64(0); f < limit; f++ {
				for v := uint64(0); v < n; v++ {
					g := Insert(n, f, s, v)
					if d := Digit(n, g, s); d != v {
						t.Fatalf("n=%d s=%d f=%d v=%d: Digit(Insert) = %d", n, s, f, v, d)
					}
					if r := Remove(n, g, s); r != f {
						t.Fatalf("n=%d s=%d f=%d v=%d: Remove(Insert) = %d", n, s, f, v, r)
					}
				}
			}
		}
	}
}

func TestInsertKeepsOtherDigits(t *testing.T) {
	const n = 5
	// f encodes (d0, d1, d2) = (1, 4, 2)
	f := uint64(1 + 4*5 + 2*25)
	g := Insert(n, f, 1, 3)

	want := []uint64{1, 3, 4, 2}
	for s, w := range want {
		if got := Digit(n, g, uint64(s)); got != w {
			t.Errorf("Digit(g, %d) = %d, want %d", s, got, w)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		d, n uint64
		want uint64
	}{
		{0, 0, 1},
		{0, 7, 1},
		{1, 0, 0},
		{3, 0, 0},
		{2, 5, 25},
		{4, 3, 81},
		{10, 2, 1024},
	}

	for _, tt := range tests {
		if got := Count(tt.d, tt.n); got != tt.want {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.d, tt.n, got, tt.want)
		}
	}
}

func TestCheckedCount(t *testing.T) {
	got, err := CheckedCount(3, 10)
	if err != nil || got != 1000 {
		t.Errorf("CheckedCount(3, 10) = %d, %v", got, err)
	}

	got, err = CheckedCount(63, 2)
	if err != nil || got != 1<<63 {
		t.Errorf("CheckedCount(63, 2) = %d, %v", got, err)
	}

	if _, err := CheckedCount(64, 2); !errors.Is(err, errors.ErrCodeArithmeticRange) {
		t.Errorf("CheckedCount(64, 2) error = %v, want ARITHMETIC_RANGE", err)
	}
}

func TestCodec(t *testing.T) {
	c := New(4)

	if c.Base() != 4 {
		t.Errorf("Base() = %d, want 4", c.Base())
	}
	if got := c.Insert(15, 1, 2); got != 59 {
		t.Errorf("Insert = %d, want 59", got)
	}
	if got := c.Digit(59, 1); got != 2 {
		t.Errorf("Digit = %d, want 2", got)
	}
	if got := c.Remove(59, 1); got != 15 {
		t.Errorf("Remove = %d, want 15", got)
	}
	if got := c.Count(3); got != 64 {
		t.Errorf("Count(3) = %d, want 64", got)
	}
}

func TestCodecValidate(t *testing.T) {
	c := New(4)

	tests := []struct {
		name    string
		s, bag  int
		v       uint64
		wantErr bool
	}{
		{"append", 2, 2, 3, false},
		{"front", 0, 0, 0, false},
		{"negative significance", -1, 2, 0, true},
		{"significance past bag", 3, 2, 0, true},
		{"image out of range", 0, 2, 4, true},
		{"bag too large", 0, 40, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.s, tt.bag, tt.v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeArithmeticRange) {
				t.Errorf("Validate() code = %v, want ARITHMETIC_RANGE", errors.GetCode(err))
			}
		})
	}
}
