// Agreement terms — the simulator-facing reading of a proposal. Which
// dimension carries which term is configuration, so scenarios can rename
// their issue spaces without touching the run loop.
package sim

import (
	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
)

// terms is the extracted ruleset a run enforces. A term whose dimension is
// absent from the proposal simply does not constrain anyone.
type terms struct {
	hasStandoff  bool
	standoffNorm float64 // Required distance normalized to the dimension range

	hasEscortLimit bool
	escortLimit    int

	noticeRequired bool

	hotline bool
}

func extractTerms(p issue.Proposal, space *issue.IssueSpace, cfg config.Sim) terms {
	var t terms

	if v, ok := p.Values[cfg.StandoffDimension]; ok {
		if dim, found := space.Dimension(cfg.StandoffDimension); found && dim.Max > dim.Min {
			t.hasStandoff = true
			t.standoffNorm = (v.Num - dim.Min) / (dim.Max - dim.Min)
		}
	}
	if v, ok := p.Values[cfg.EscortDimension]; ok {
		t.hasEscortLimit = true
		t.escortLimit = int(v.Num)
	}
	if v, ok := p.Values[cfg.NoticeDimension]; ok {
		t.noticeRequired = v.Num > 0
	}
	if v, ok := p.Values[cfg.HotlineDimension]; ok {
		t.hotline = v.Bool()
	}
	return t
}
