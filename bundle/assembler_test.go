package bundle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txList(n int) []string {
	txs := make([]string, n)
	for i := range txs {
		txs[i] = fmt.Sprintf("tx-%d", i)
	}
	return txs
}

func TestAssemble_Empty(t *testing.T) {
	assert.Empty(t, Assemble(nil, 5))
	assert.Empty(t, Assemble([]string{}, 5))
}

func TestAssemble_Chunking(t *testing.T) {
	tests := []struct {
		n, capacity, wantBundles, wantLast int
	}{
		{1, 5, 1, 1},
		{5, 5, 1, 5},
		{6, 5, 2, 1},
		{7, 3, 3, 1},
		{10, 5, 2, 5},
		{12, 5, 3, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d,cap=%d", tt.n, tt.capacity), func(t *testing.T) {
			bundles := Assemble(txList(tt.n), tt.capacity)
			require.Len(t, bundles, tt.wantBundles)

			for i, b := range bundles[:len(bundles)-1] {
				assert.Len(t, b, tt.capacity, "bundle %d must be full", i)
			}
			assert.Len(t, bundles[len(bundles)-1], tt.wantLast)
		})
	}
}

func TestAssemble_PreservesOrder(t *testing.T) {
	txs := txList(13)
	bundles := Assemble(txs, 5)

	var flat []string
	for _, b := range bundles {
		flat = append(flat, b...)
	}
	assert.Equal(t, txs, flat, "concatenated bundles must equal the input")
}

func TestAssemble_InvalidCapacityFallsBack(t *testing.T) {
	bundles := Assemble(txList(6), 0)
	require.Len(t, bundles, 2)
	assert.Len(t, bundles[0], DefaultCapacity)
}
