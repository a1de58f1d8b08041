package types

import (
	"math"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// MaxInt128 returns 2^127-1, the largest representable price or stake
func MaxInt128() sdkmath.Int {
	return sdkmath.NewIntFromBigInt(maxInt128)
}

// MinInt128 returns -2^127
func MinInt128() sdkmath.Int {
	return sdkmath.NewIntFromBigInt(minInt128)
}

// IsInt128 reports whether v fits the signed 128-bit range
func IsInt128(v sdkmath.Int) bool {
	if v.IsNil() {
		return false
	}
	b := v.BigInt()
	return b.Cmp(maxInt128) <= 0 && b.Cmp(minInt128) >= 0
}

// ClampInt128 saturates v into the signed 128-bit range
func ClampInt128(v sdkmath.Int) sdkmath.Int {
	b := v.BigInt()
	switch {
	case b.Cmp(maxInt128) > 0:
		return MaxInt128()
	case b.Cmp(minInt128) < 0:
		return MinInt128()
	default:
		return v
	}
}

// SaturatingAddInt128 adds two int128 values, clamping on overflow
func SaturatingAddInt128(a, b sdkmath.Int) sdkmath.Int {
	return ClampInt128(a.Add(b))
}

// SaturatingSubInt128 subtracts b from a, clamping on overflow
func SaturatingSubInt128(a, b sdkmath.Int) sdkmath.Int {
	return ClampInt128(a.Sub(b))
}

// SaturatingSubUint32 returns a-b, or 0 when b > a
func SaturatingSubUint32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

// SaturatingAddCapped returns min(a+b, limit) without wrapping
func SaturatingAddCapped(a, b, limit uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > uint64(limit) {
		return limit
	}
	return uint32(sum)
}

// ClampConfidence caps a self-reported confidence at 100% in bps
func ClampConfidence(confidence uint32) uint32 {
	if confidence > MaxConfidenceBps {
		return MaxConfidenceBps
	}
	return confidence
}

// SaturatingAddTimestamp returns ts+secs, saturating at math.MaxInt64
func SaturatingAddTimestamp(ts int64, secs uint64) int64 {
	if secs > uint64(math.MaxInt64) || ts > math.MaxInt64-int64(secs) {
		return math.MaxInt64
	}
	return ts + int64(secs)
}
