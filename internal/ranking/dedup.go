package ranking

import (
	"github.com/Nathan-Luevano/Sift/internal/keywords"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Deduplicate collapses near-duplicate items, keeping the first occurrence.
// Identity is two-stage: an identical non-empty URL always wins, then an
// order-independent fingerprint of the content's distinct significant words.
// Items without a URL only participate in fingerprint dedup.
func Deduplicate(items []models.RankedItem) []models.RankedItem {
	seenURLs := make(map[string]struct{})
	seenFingerprints := make(map[string]struct{})

	unique := make([]models.RankedItem, 0, len(items))
	for i := range items {
		url := items[i].URL
		if url != "" {
			if _, dup := seenURLs[url]; dup {
				continue
			}
		}

		fp := keywords.Fingerprint(items[i].Content)
		if _, dup := seenFingerprints[fp]; dup {
			// Same word set as an earlier item, even if reordered.
			continue
		}

		if url != "" {
			seenURLs[url] = struct{}{}
		}
		seenFingerprints[fp] = struct{}{}
		unique = append(unique, items[i])
	}

	return unique
}
