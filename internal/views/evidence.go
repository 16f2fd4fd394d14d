package views

import (
	"strings"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/evidence"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

type EvidenceView struct {
	Status
	Kind   string                `json:"kind"`
	Items  []evidence.Evidence   `json:"items"`
	Counts map[evidence.Kind]int `json:"counts"`
}

// EvidencePage is the gallery of every activity's evidence.
type EvidencePage struct {
	*controller[[]evidence.Evidence]
	kind string
}

func NewEvidencePage(fetcher clients.Fetcher) *EvidencePage {
	return &EvidencePage{
		controller: newController(fetcher, func(s clients.Snapshot) []evidence.Evidence {
			return evidence.Gallery(records.DecodeActivities(s[clients.Activities]))
		}, clients.Activities),
		kind: "all",
	}
}

// SetKind narrows the gallery to one evidence kind; "" or "all" shows everything.
func (p *EvidencePage) SetKind(kind string) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "all"
	}
	p.mu.Lock()
	p.kind = kind
	p.mu.Unlock()
}

func (p *EvidencePage) View() EvidenceView {
	items, _, status := p.state()
	p.mu.Lock()
	kind := p.kind
	p.mu.Unlock()

	counts := map[evidence.Kind]int{}
	for _, item := range items {
		counts[item.Kind]++
	}
	return EvidenceView{Status: status, Kind: kind, Items: evidence.FilterKind(items, kind), Counts: counts}
}
