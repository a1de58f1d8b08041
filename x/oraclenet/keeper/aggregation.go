package keeper

import (
	"math"
	"sort"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

var bpsDenominator = sdkmath.NewInt(types.BpsDenominator)

// WeightedPrice is an included submission paired with its aggregation weight
type WeightedPrice struct {
	Price  sdkmath.Int
	Weight uint32
}

// SubmissionOutcome records whether a provider's submission survived outlier filtering
type SubmissionOutcome struct {
	Oracle   string
	Included bool
}

// AggregationResult is the outcome of aggregating one round
type AggregationResult struct {
	ReferenceMedian sdkmath.Int
	Price           sdkmath.Int
	NumIncluded     uint32
	NumRejected     uint32
	SpreadBps       uint32
	Confidence      uint32
	Outcomes        []SubmissionOutcome
}

// Aggregate turns the submissions of a round into a single price. Outliers are
// classified against the unweighted median of every submission, then the survivors
// are combined with a weighted median where each provider's weight is looked up in
// weights (1 when absent). It fails with ErrConsensusNotReached when fewer than
// minIncluded submissions survive filtering.
func Aggregate(submissions []types.PriceSubmission, weights map[string]uint32, thresholdBps, minIncluded uint32) (AggregationResult, error) {
	prices := make([]sdkmath.Int, len(submissions))
	for i, sub := range submissions {
		prices[i] = sub.Price
	}
	reference := Median(prices)

	result := AggregationResult{
		ReferenceMedian: reference,
		Outcomes:        make([]SubmissionOutcome, 0, len(submissions)),
	}

	var (
		included    []WeightedPrice
		confidences []WeightedConfidenceInput
		minPrice    sdkmath.Int
		maxPrice    sdkmath.Int
	)
	for _, sub := range submissions {
		outlier := IsOutlier(sub.Price, reference, thresholdBps)
		result.Outcomes = append(result.Outcomes, SubmissionOutcome{Oracle: sub.Oracle, Included: !outlier})
		if outlier {
			result.NumRejected++
			continue
		}

		weight, ok := weights[sub.Oracle]
		if !ok {
			weight = 1
		}
		included = append(included, WeightedPrice{Price: sub.Price, Weight: weight})
		confidences = append(confidences, WeightedConfidenceInput{
			Confidence: types.ClampConfidence(sub.Confidence),
			Weight:     weight,
		})
		if minPrice.IsNil() || sub.Price.LT(minPrice) {
			minPrice = sub.Price
		}
		if maxPrice.IsNil() || sub.Price.GT(maxPrice) {
			maxPrice = sub.Price
		}
	}

	result.NumIncluded = uint32(len(included))
	if result.NumIncluded < minIncluded {
		return result, errorsmod.Wrapf(
			types.ErrConsensusNotReached,
			"%d of %d submissions within %d bps of median %s, need %d",
			result.NumIncluded, len(submissions), thresholdBps, reference, minIncluded,
		)
	}

	result.Price = WeightedMedian(included)
	if len(included) > 0 {
		result.SpreadBps = SpreadBps(minPrice, maxPrice, result.Price)
	}
	result.Confidence = WeightedConfidence(confidences)
	return result, nil
}

// Median returns the unweighted median. An even count yields the truncated average
// of the two middle values; an empty input yields zero.
func Median(values []sdkmath.Int) sdkmath.Int {
	if len(values) == 0 {
		return sdkmath.ZeroInt()
	}

	sorted := make([]sdkmath.Int, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LT(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).QuoRaw(2)
}

// WeightedMedian returns the first price, in ascending order, at which the cumulative
// weight reaches half of the total weight rounded up.
func WeightedMedian(pairs []WeightedPrice) sdkmath.Int {
	switch len(pairs) {
	case 0:
		return sdkmath.ZeroInt()
	case 1:
		return pairs[0].Price
	}

	sorted := make([]WeightedPrice, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.LT(sorted[j].Price)
	})

	var totalWeight uint64
	for _, p := range sorted {
		totalWeight += uint64(p.Weight)
	}

	half := (totalWeight + 1) / 2
	var cumulative uint64
	for _, p := range sorted {
		cumulative += uint64(p.Weight)
		if cumulative >= half {
			return p.Price
		}
	}

	return sorted[len(sorted)-1].Price
}

// IsOutlier reports whether price deviates from median by more than thresholdBps.
// Against a zero median every non-zero price is an outlier.
func IsOutlier(price, median sdkmath.Int, thresholdBps uint32) bool {
	if median.IsZero() {
		return !price.IsZero()
	}
	diff := price.Sub(median).Abs()
	scaled := types.ClampInt128(diff.Mul(bpsDenominator))
	deviation := scaled.Quo(median.Abs())
	return deviation.GT(sdkmath.NewIntFromUint64(uint64(thresholdBps)))
}

// SpreadBps returns (max-min) relative to reference in basis points, saturating at
// MaxUint32. A zero reference yields zero.
func SpreadBps(minPrice, maxPrice, reference sdkmath.Int) uint32 {
	if reference.IsZero() {
		return 0
	}
	scaled := types.ClampInt128(maxPrice.Sub(minPrice).Mul(bpsDenominator))
	bps := scaled.Quo(reference.Abs())
	if bps.IsNegative() {
		return 0
	}
	if bps.GT(sdkmath.NewIntFromUint64(math.MaxUint32)) {
		return math.MaxUint32
	}
	return uint32(bps.Uint64())
}

// WeightedConfidenceInput is one (confidence, weight) pair for WeightedConfidence
type WeightedConfidenceInput struct {
	Confidence uint32
	Weight     uint32
}

// WeightedConfidence returns sum(c*w)/sum(w), or zero when the total weight is zero
func WeightedConfidence(inputs []WeightedConfidenceInput) uint32 {
	var sum, totalWeight uint64
	for _, in := range inputs {
		sum += uint64(in.Confidence) * uint64(in.Weight)
		totalWeight += uint64(in.Weight)
	}
	if totalWeight == 0 {
		return 0
	}
	return uint32(sum / totalWeight)
}
