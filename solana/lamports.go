package solana

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// SOLToLamports converts a decimal SOL amount string to lamports.
func SOLToLamports(amount string) (uint64, error) {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", amount, err)
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("SOL amount must be a positive number, got %q", amount)
	}
	return uint64(math.Round(f * float64(solana.LAMPORTS_PER_SOL))), nil
}

// LamportsToSOL converts a lamport balance to decimal SOL.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}
