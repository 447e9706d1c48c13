package bloom

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Hashes of "ab" and "dc" under the default Rabin-Karp settings.
const (
	hashAB = 24930
	hashDC = 25699
)

func mustNew(t testing.TB, nbits int, opts *Options) *Filter {
	t.Helper()
	f, err := New(nbits, opts)
	if err != nil {
		t.Fatalf("New(%d): unexpected error: %v", nbits, err)
	}
	return f
}

func TestNewSize(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		if _, err := New(n, nil); !errors.Is(err, ErrFilterSize) {
			t.Errorf("New(%d): got error %v, want %v", n, err, ErrFilterSize)
		}
	}
	f := mustNew(t, 13, nil)
	if got := len(f.bits); got != 2 {
		t.Errorf("New(13): got %d bytes, want 2", got)
	}
	if diff := cmp.Diff(Stats{FilterBits: 13, NumProbes: DefaultProbes}, f.Stats()); diff != "" {
		t.Errorf("Stats (-want, +got):\n%s", diff)
	}
}

func TestProbePositions(t *testing.T) {
	f := mustNew(t, 200, nil)
	var got []uint64
	for i := range uint64(DefaultProbes) {
		got = append(got, f.pos(i, hashAB))
	}
	want := []uint64{131, 62, 195, 130, 67, 6, 147, 90, 35, 182}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Probe positions (-want, +got):\n%s", diff)
	}
}

func TestDumpOrderIndependent(t *testing.T) {
	f1 := mustNew(t, 200, nil)
	f1.Add(hashAB)
	f1.Add(hashDC)

	f2 := mustNew(t, 200, nil)
	f2.Add(hashDC)
	f2.Add(hashAB)

	d1, err := f1.Dump(160)
	if err != nil {
		t.Fatalf("Dump: unexpected error: %v", err)
	}
	d2, err := f2.Dump(160)
	if err != nil {
		t.Fatalf("Dump: unexpected error: %v", err)
	}
	want := []byte{
		0x82, 0x00, 0x08, 0x00, 0x10, 0x20, 0x00, 0x02, 0x10, 0x80,
		0x00, 0x20, 0x0a, 0x00, 0x80, 0x00, 0x30, 0x00, 0x10, 0x08,
	}
	if diff := cmp.Diff(want, d1); diff != "" {
		t.Errorf("Dump (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Errorf("Dump depends on insertion order (-ab/dc, +dc/ab):\n%s", diff)
	}
}

func TestDump(t *testing.T) {
	f := mustNew(t, 16, nil)
	f.Add(hashAB)

	tests := []struct {
		nbits int
		want  []byte
	}{
		{0, []byte{}},
		{8, []byte{0x32}},
		{16, []byte{0x32, 0x10}},
		{160, []byte{0x32, 0x10}}, // clamped to the filter size
	}
	for _, test := range tests {
		got, err := f.Dump(test.nbits)
		if err != nil {
			t.Errorf("Dump(%d): unexpected error: %v", test.nbits, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Dump(%d) (-want, +got):\n%s", test.nbits, diff)
		}
	}
	for _, bad := range []int{-8, 3, 12} {
		if _, err := f.Dump(bad); !errors.Is(err, ErrDumpSize) {
			t.Errorf("Dump(%d): got error %v, want %v", bad, err, ErrDumpSize)
		}
	}
}

func TestEmptyFilter(t *testing.T) {
	f := mustNew(t, 1000, nil)
	rng := rand.New(rand.NewPCG(7, 11))
	for range 1000 {
		if x := rng.Uint64(); f.Has(x) {
			t.Fatalf("Has(%d): got true on an empty filter", x)
		}
	}
}

func TestNoFalseNegatives(t *testing.T) {
	const n = 2000
	f := mustNew(t, SizeFor(n, 0), nil)
	rng := rand.New(rand.NewPCG(2026, 10))

	var added []uint64
	for range n {
		x := rng.Uint64()
		f.Add(x)
		added = append(added, x)

		// Every element added so far must still be present.
		if len(added)%100 == 0 {
			for _, y := range added {
				if !f.Has(y) {
					t.Fatalf("Has(%d): got false after %d insertions", y, len(added))
				}
			}
		}
	}
	if got := f.Stats().NumKeys; got != n {
		t.Errorf("NumKeys: got %d, want %d", got, n)
	}
}

func TestFalsePositiveRate(t *testing.T) {
	const (
		n = 10000  // elements inserted
		m = 100000 // non-members probed
	)
	f := mustNew(t, 10*n, &Options{Probes: 10})
	rng := rand.New(rand.NewPCG(1, 1))

	in := make(map[uint64]bool)
	for range n {
		x := rng.Uint64()
		in[x] = true
		f.Add(x)
	}

	var fp, total int
	for total < m {
		x := rng.Uint64()
		if in[x] {
			continue
		}
		total++
		if f.Has(x) {
			fp++
		}
	}
	rate := float64(fp) / float64(total)
	t.Logf("False positives: %d of %d (%.4f); %d of %d bits set",
		fp, total, rate, f.Stats().BitsSet, f.Stats().FilterBits)
	// With 10 bits per element and 10 probes, the expected rate is about
	// (1-e^-1)^10, or 1.02%.
	if rate > 0.012 {
		t.Errorf("False positive rate %.4f exceeds 0.012", rate)
	}
}

func TestKeys(t *testing.T) {
	input := strings.Fields("a foolish consistency is the hobgoblin of little minds")

	f := mustNew(t, SizeFor(len(input), 0), nil)
	for _, key := range input {
		f.AddKey([]byte(key))
	}
	for _, key := range input {
		if !f.HasKey([]byte(key)) {
			t.Errorf("HasKey(%q): got false, want true", key)
		}
	}

	// A custom hash replaces the default.
	g := mustNew(t, 64, &Options{Hash: func(key []byte) uint64 { return uint64(len(key)) }})
	g.AddKey([]byte("abc"))
	if !g.Has(3) {
		t.Error("Has(3): got false after AddKey with a length hash")
	}
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		n, bitsPer, want int
	}{
		{0, 0, 8},
		{1, 0, 8},
		{2, 0, 16},
		{3, 0, 24},
		{7, 0, 64},
		{100, 10, 1000},
		{5, 3, 8},
		{9, 3, 24},
	}
	for _, test := range tests {
		if got := SizeFor(test.n, test.bitsPer); got != test.want {
			t.Errorf("SizeFor(%d, %d): got %d, want %d", test.n, test.bitsPer, got, test.want)
		}
	}
}

func BenchmarkHas(b *testing.B) {
	f := mustNew(b, 1<<20, nil)
	for i := range uint64(1 << 16) {
		f.Add(i * 7919)
	}
	var x uint64
	for b.Loop() {
		f.Has(x)
		x++
	}
}
