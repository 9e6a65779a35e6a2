package matching

import (
	"sort"

	"github.com/carepool/screening-matching-service/internal/domain"
)

// BatchSelection is the outcome of the eligibility filter for one
// screening-type group.
type BatchSelection struct {
	Batch                 []*domain.WaitlistEntry
	SkippedDueToLimits    int
	SkippedAlreadyMatched int
}

// SelectBatch narrows a screening-type group to the entries allowed into
// this run, oldest joined first. activeCounts holds each patient's current
// active allocation count; alreadyMatched holds (patient, screening type)
// pairs matched earlier in this run or elsewhere in the candidate set.
func SelectBatch(
	entries []*domain.WaitlistEntry,
	activeCounts map[string]int,
	alreadyMatched map[string]struct{},
	batchSize int,
) BatchSelection {
	sorted := make([]*domain.WaitlistEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].JoinedAt.Before(sorted[j].JoinedAt)
	})

	selection := BatchSelection{Batch: make([]*domain.WaitlistEntry, 0, batchSize)}
	seenPatients := make(map[string]struct{}, len(sorted))

	for _, entry := range sorted {
		if len(selection.Batch) >= batchSize {
			break
		}
		if _, seen := seenPatients[entry.PatientID]; seen {
			continue
		}
		seenPatients[entry.PatientID] = struct{}{}

		if activeCounts[entry.PatientID] >= domain.MaxActiveAllocationsPerPatient {
			selection.SkippedDueToLimits++
			continue
		}
		if _, matched := alreadyMatched[MatchKey(entry.PatientID, entry.ScreeningTypeID)]; matched {
			selection.SkippedAlreadyMatched++
			continue
		}
		selection.Batch = append(selection.Batch, entry)
	}

	return selection
}

// MatchKey identifies a (patient, screening type) pair within one run.
func MatchKey(patientID, screeningTypeID string) string {
	return patientID + "|" + screeningTypeID
}
