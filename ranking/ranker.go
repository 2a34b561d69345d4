package ranking

import (
	"fmt"
	"sort"

	"github.com/theoremus-urban-solutions/trip-routes/tripdata"
)

// RankedPair is a pickup→dropoff pair with its occurrence count in the
// processed window.
type RankedPair struct {
	Pickup    int
	Dropoff   int
	Frequency int
}

// Rank counts occurrences of each (pickup, dropoff) pair among the first
// rowLimit records and returns the topN pairs by descending frequency.
//
// Ties are ordered by first occurrence in the input. The upstream data
// leaves tie order unspecified, so it is pinned here to keep output
// reproducible across runs.
//
// Rank is pure: identical input yields identical output and no state is
// touched.
func Rank(records []tripdata.Pair, rowLimit, topN int) []RankedPair {
	if rowLimit >= 0 && len(records) > rowLimit {
		// Truncation, not sampling: the tail is dropped to bound work.
		records = records[:rowLimit]
	}

	type bucket struct {
		pair  tripdata.Pair
		count int
		first int
	}
	counts := map[tripdata.Pair]*bucket{}
	order := make([]*bucket, 0)
	for i, rec := range records {
		b, ok := counts[rec]
		if !ok {
			b = &bucket{pair: rec, first: i}
			counts[rec] = b
			order = append(order, b)
		}
		b.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if topN >= 0 && len(order) > topN {
		order = order[:topN]
	}
	out := make([]RankedPair, len(order))
	for i, b := range order {
		out[i] = RankedPair{Pickup: b.pair.Pickup, Dropoff: b.pair.Dropoff, Frequency: b.count}
	}
	return out
}

// ValidatePair checks a pair against the business rules: both ids strictly
// positive and distinct.
func ValidatePair(pickupID, dropoffID int) error {
	if pickupID <= 0 || dropoffID <= 0 {
		return fmt.Errorf("invalid route pair: pickup=%d, dropoff=%d", pickupID, dropoffID)
	}
	if pickupID == dropoffID {
		return fmt.Errorf("invalid route pair: pickup and dropoff are both %d", pickupID)
	}
	return nil
}

// FilterNew returns the ranked pairs whose (pickup, dropoff) key is not in
// existing. Used for idempotency bookkeeping: the authoritative existence
// check still happens per item against the live store.
func FilterNew(pairs []RankedPair, existing map[tripdata.Pair]struct{}) []RankedPair {
	out := make([]RankedPair, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := existing[tripdata.Pair{Pickup: p.Pickup, Dropoff: p.Dropoff}]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
