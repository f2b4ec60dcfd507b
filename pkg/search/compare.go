package search

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/scoring"
)

var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/fixturefit/layout"))

// Candidate is one scored layout.
type Candidate struct {
	ID       uuid.UUID        `json:"id"`
	Layout   layout.Layout    `json:"layout"`
	Score    scoring.Score    `json:"score"`
	Rank     float64          `json:"rank"`
	Unplaced []string         `json:"unplaced,omitempty"`
	Status   placement.Status `json:"status"`
}

// Result is the outcome of a search.
type Result struct {
	Strategy  string           `json:"strategy"`
	Requested []string         `json:"requested"`
	Best      Candidate        `json:"best"`
	Ranked    []Candidate      `json:"ranked"`
	Status    placement.Status `json:"status"`
	Duration  time.Duration    `json:"duration"`
}

// Feasible reports whether the best candidate holds at least one fixture
// or nothing was requested.
func (r Result) Feasible() bool { return r.Status != placement.StatusInfeasible }

// Compare scores every layout and ranks them by descending ranking value:
// the total score, or the weighted criteria mean when weights are given.
// Best is the first layout with the highest value.
func Compare(layouts []layout.Layout, requested []string, sopts scoring.Options, weights map[string]float64) Result {
	ranked := make([]Candidate, len(layouts))
	for i, l := range layouts {
		ranked[i] = newCandidate(l, requested, sopts, weights)
	}
	return rank(ranked, requested)
}

func newCandidate(l layout.Layout, requested []string, sopts scoring.Options, weights map[string]float64) Candidate {
	s := scoring.Evaluate(l, requested, sopts)
	unplaced := missing(requested, l.Fulfilled())
	return Candidate{
		ID:       LayoutID(l),
		Layout:   l,
		Score:    s,
		Rank:     s.Weighted(weights),
		Unplaced: unplaced,
		Status:   placement.StatusOf(len(requested), len(requested)-len(unplaced)),
	}
}

func rank(cands []Candidate, requested []string) Result {
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		switch {
		case a.Rank > b.Rank:
			return -1
		case a.Rank < b.Rank:
			return 1
		}
		return 0
	})
	res := Result{Requested: requested, Ranked: cands, Status: placement.StatusInfeasible}
	if len(cands) > 0 {
		res.Best = cands[0]
		res.Status = res.Best.Status
	} else if len(requested) == 0 {
		res.Status = placement.StatusComplete
	}
	return res
}

// LayoutID returns a name-based UUID of l's room, openings and objects.
// Equal layouts get equal IDs.
func LayoutID(l layout.Layout) uuid.UUID {
	var b strings.Builder
	fmt.Fprintf(&b, "room %dx%dx%d\n", l.Room.Width, l.Room.Depth, l.Room.Height)
	for _, o := range l.Openings {
		fmt.Fprintf(&b, "opening %s %s %s %d %d %d\n", o.ID, o.Kind, o.Wall, o.X, o.Y, o.Width)
	}
	for _, o := range l.Objects {
		fmt.Fprintf(&b, "object %s %d %d %d %d %d\n", o.Name, o.X, o.Y, o.Width, o.Depth, o.Height)
	}
	return uuid.NewSHA1(candidateNamespace, []byte(b.String()))
}

// missing returns the requested names not covered by placed, counting
// duplicates.
func missing(requested, placed []string) []string {
	left := map[string]int{}
	for _, n := range placed {
		left[n]++
	}
	var out []string
	for _, n := range requested {
		if left[n] > 0 {
			left[n]--
			continue
		}
		out = append(out, n)
	}
	return out
}
