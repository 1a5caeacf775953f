package service

import (
	"time"

	"bakehouse/internal/domain"
)

type MergeResult struct {
	Orders []domain.Order
	// Imported counts remote records appended because no local order had their id.
	Imported int
	// Adopted counts local orders that gained a remote id they were missing.
	Adopted int
	// Skipped counts remote records whose orderId is not a local id.
	Skipped int
}

func (r MergeResult) Changed() bool {
	return r.Imported > 0 || r.Adopted > 0
}

// Merge folds a remote snapshot into the local list. A local order always
// wins over a remote record with the same id; the only thing taken from the
// remote copy is a remote id the local order does not have yet. The input
// slice is not modified.
func Merge(local []domain.Order, remote []domain.RemoteOrder, loc *time.Location) MergeResult {
	merged := make([]domain.Order, len(local), len(local)+len(remote))
	copy(merged, local)

	index := make(map[int64]int, len(merged))
	for i, o := range merged {
		index[o.ID] = i
	}

	result := MergeResult{}
	for _, r := range remote {
		mapped, ok := r.ToOrder(loc)
		if !ok {
			result.Skipped++
			continue
		}

		if i, exists := index[mapped.ID]; exists {
			if merged[i].RemoteID == "" && mapped.RemoteID != "" {
				merged[i].RemoteID = mapped.RemoteID
				result.Adopted++
			}
			continue
		}

		index[mapped.ID] = len(merged)
		merged = append(merged, mapped)
		result.Imported++
	}

	result.Orders = merged
	return result
}
