package hll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseSize(t *testing.T) {
	cases := []struct {
		m    uint64
		want uint64
	}{
		{m: 16, want: (6*16+7)/8 + 1},
		{m: 1 << 14, want: (6*(1<<14)+7)/8 + 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, denseSize(c.m))
	}
}

// TestRegisterPacking checks both endpoints and every intra-byte bit
// alignment a 6-bit register can land on (nrb in {0, 2, 4, 6}).
func TestRegisterPacking(t *testing.T) {
	const m = 32
	regs := make([]byte, denseSize(m))

	for i := uint64(0); i < m; i++ {
		v := uint8((i*13 + 5) % 64)
		setRegister(regs, i, v)
	}

	for i := uint64(0); i < m; i++ {
		want := uint8((i*13 + 5) % 64)
		got := getRegister(regs, i)
		require.Equalf(t, want, got, "register %d", i)
	}
}

func TestRegisterPackingEndpoints(t *testing.T) {
	const m = 16
	regs := make([]byte, denseSize(m))

	setRegister(regs, 0, 63)
	setRegister(regs, m-1, 42)

	assert.Equal(t, uint8(63), getRegister(regs, 0))
	assert.Equal(t, uint8(42), getRegister(regs, m-1))
}

func TestRegisterPackingNeighborsUnperturbed(t *testing.T) {
	const m = 8
	regs := make([]byte, denseSize(m))

	for i := uint64(0); i < m; i++ {
		setRegister(regs, i, 0x3F)
	}

	setRegister(regs, 3, 0)

	for i := uint64(0); i < m; i++ {
		if i == 3 {
			assert.Equal(t, uint8(0), getRegister(regs, i))
			continue
		}
		assert.Equalf(t, uint8(0x3F), getRegister(regs, i), "register %d perturbed by neighbor write", i)
	}
}

func TestRegisterPackingAllAlignments(t *testing.T) {
	// bitStart = 6i+6 mod 8 cycles through {4, 2, 0, 6} as i increases,
	// since 6 is only ever even; picking eight consecutive registers
	// covers every alignment at least twice.
	const m = 8
	regs := make([]byte, denseSize(m))

	values := []uint8{1, 62, 31, 0, 15, 63, 7, 48}
	for i, v := range values {
		setRegister(regs, uint64(i), v)
	}
	for i, v := range values {
		require.Equalf(t, v, getRegister(regs, uint64(i)), "register %d", i)
	}
}
