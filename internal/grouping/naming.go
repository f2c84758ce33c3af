package grouping

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/josephgoksu/tasksage/internal/task"
	"github.com/josephgoksu/tasksage/internal/utils"
)

const (
	// FallbackKeyword names a cluster whose sampled titles share no word longer than 3 letters.
	FallbackKeyword = "Related Tasks"

	nameSampleSize     = 3
	minKeywordLength   = 4
	individualTitleMax = 30
)

// IndividualName names a promoted outlier: "Individual #{id}: {title}", with
// the title cut at 30 runes and "..." appended only when it was cut.
func IndividualName(t task.Task) string {
	return fmt.Sprintf("Individual #%d: %s", t.ID, utils.Clip(t.Title, individualTitleMax))
}

// ClusterName names a multi-member cluster as "{Type}: {Keyword}" from its
// first three members.
func ClusterName(members []task.Task) string {
	sample := members
	if len(sample) > nameSampleSize {
		sample = sample[:nameSampleSize]
	}
	return fmt.Sprintf("%s: %s", utils.ToTitle(string(dominantType(sample))), keyword(sample))
}

// dominantType returns the most common type; the earliest seen wins ties.
func dominantType(tasks []task.Task) task.Type {
	counts := make(map[task.Type]int)
	var order []task.Type
	for _, t := range tasks {
		if counts[t.Type] == 0 {
			order = append(order, t.Type)
		}
		counts[t.Type]++
	}
	return mostFrequent(order, counts, task.TypeOther)
}

// keyword returns the most frequent lower-cased title word longer than three
// letters, title-cased, or FallbackKeyword when none qualifies.
func keyword(tasks []task.Task) string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tasks {
		for _, w := range strings.Fields(strings.ToLower(t.Title)) {
			if utf8.RuneCountInString(w) < minKeywordLength {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	if len(order) == 0 {
		return FallbackKeyword
	}
	return utils.ToTitle(mostFrequent(order, counts, ""))
}

func mostFrequent[K comparable](order []K, counts map[K]int, fallback K) K {
	best := fallback
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
