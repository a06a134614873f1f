package hit

import "github.com/kailas-cloud/fusedex/internal/domain/search/source"

// Contribution is one source list's part in a fused hit: the 1-indexed rank
// the document held there and, when the backend scored it, the source score.
type Contribution struct {
	rank   int
	score  float64
	scored bool
}

// NewContribution creates a source contribution.
func NewContribution(rank int, score float64, scored bool) Contribution {
	return Contribution{rank: rank, score: score, scored: scored}
}

// Rank returns the 1-indexed rank the document held in the source list.
func (c *Contribution) Rank() int { return c.rank }

// Score returns the source score and whether the source provided one.
func (c *Contribution) Score() (float64, bool) { return c.score, c.scored }

// Fused is a hit produced by rank fusion, carrying its fused score and the
// per-source ranks and scores that produced it.
type Fused struct {
	hit           Hit
	score         float64
	contributions map[source.Source]Contribution
}

// NewFused creates a fused hit from the merged document, its fused score, and
// the contributions keyed by source. The contribution map is copied.
func NewFused(h Hit, score float64, contributions map[source.Source]Contribution) Fused {
	c := make(map[source.Source]Contribution, len(contributions))
	for src, contrib := range contributions {
		c[src] = contrib
	}
	return Fused{hit: h, score: score, contributions: c}
}

// Hit returns the merged document with the fused score set.
func (f *Fused) Hit() Hit { return f.hit.WithScore(f.score) }

// Score returns the fused score.
func (f *Fused) Score() float64 { return f.score }

// Source returns the contribution of src, if that source ranked the document.
func (f *Fused) Source(src source.Source) (Contribution, bool) {
	c, ok := f.contributions[src]
	return c, ok
}
