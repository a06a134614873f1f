package search

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/search/hit"
	"github.com/kailas-cloud/fusedex/internal/domain/search/source"
)

// DefaultK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const DefaultK = 60

// Merger fuses keyword and vector rankings via Reciprocal Rank Fusion:
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
type Merger struct {
	k int
}

// NewMerger creates a merger with the given fusion constant.
func NewMerger(k int) (*Merger, error) {
	if k <= 0 {
		return nil, fmt.Errorf("fusion constant must be positive, got %d: %w", k, domain.ErrInvalidParameter)
	}
	return &Merger{k: k}, nil
}

// Merge fuses the two rankings into a single list sorted by fused score
// descending; ties keep first-seen input order (keyword list first). Inputs
// are never mutated; empty inputs fuse to an empty list.
func (m *Merger) Merge(keyword, vector []hit.Hit) ([]hit.Fused, error) {
	type acc struct {
		merged        hit.Hit
		score         float64
		contributions map[source.Source]hit.Contribution
	}

	byID := make(map[string]*acc, len(keyword)+len(vector))
	order := make([]string, 0, len(keyword)+len(vector))

	collect := func(src source.Source, hits []hit.Hit) error {
		for i, h := range hits {
			if h.ID() == "" {
				return fmt.Errorf("%s hit at rank %d: %w", src, i+1, domain.ErrMissingIdentifier)
			}

			rank := i + 1
			a, ok := byID[h.ID()]
			if !ok {
				a = &acc{merged: h, contributions: make(map[source.Source]hit.Contribution, 2)}
				byID[h.ID()] = a
				order = append(order, h.ID())
			} else if src == source.Vector {
				a.merged = overlayFields(a.merged, h)
			}

			a.score += 1.0 / float64(m.k+rank)
			sc, scored := h.Score()
			a.contributions[src] = hit.NewContribution(rank, sc, scored)
		}
		return nil
	}

	if err := collect(source.Keyword, keyword); err != nil {
		return nil, err
	}
	if err := collect(source.Vector, vector); err != nil {
		return nil, err
	}

	fused := make([]hit.Fused, 0, len(order))
	for _, id := range order {
		a := byID[id]
		fused = append(fused, hit.NewFused(a.merged, a.score, a.contributions))
	}

	// Stable sort over insertion order keeps ties deterministic.
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score() > fused[j].Score()
	})

	return fused, nil
}

// overlayFields merges a vector-side document onto the keyword-side one.
// Vector values win conflicts except the id field; field order stays
// keyword-first with vector-only names appended in vector order.
func overlayFields(kw, vec hit.Hit) hit.Hit {
	names := kw.FieldNames()
	fields := kw.Fields()

	for _, name := range vec.FieldNames() {
		v, _ := vec.Field(name)
		if _, exists := fields[name]; exists {
			if name == "id" {
				continue
			}
			fields[name] = v
			continue
		}
		names = append(names, name)
		fields[name] = v
	}

	return hit.Reconstruct(kw.ID(), names, fields, 0, false)
}
