package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a cryptographically secure shuffle of the slice.
func Shuffle[T any](slice []T) error {
	n := len(slice)
	for i := n - 1; i > 0; i-- {
		j, err := intn(i + 1)
		if err != nil {
			return err
		}
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Sample returns n distinct elements of slice chosen uniformly at random.
// n is clamped to len(slice). The input slice is not modified.
func Sample[T any](slice []T, n int) ([]T, error) {
	if n > len(slice) {
		n = len(slice)
	}
	if n <= 0 {
		return []T{}, nil
	}

	pool := make([]T, len(slice))
	copy(pool, slice)

	// Partial Fisher-Yates: the first n positions end up uniformly chosen.
	for i := 0; i < n; i++ {
		j, err := intn(len(pool) - i)
		if err != nil {
			return nil, err
		}
		j += i
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

func intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(v.Int64()), nil
}
