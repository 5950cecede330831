package graph

import "github.com/ppiankov/argmap/internal/model"

// Infer recomputes GROUNDED relations for every ordered pair of distinct
// nodes of which at least one is an argument.
//
// An argument is represented by its conclusion when it is the source and
// by its premises when it is the target; a proposition represents itself.
// The source grounds SUPPORT on the target when its anchor equals a target
// anchor or supports one axiomatically, and grounds ATTACK when its anchor
// axiomatically attacks or contradicts a target anchor in either direction.
// Only direct relations count.
//
// Edges left without any dialectical type are deleted, so the pass is
// idempotent for an unchanged set of stated relations.
func (g *MultiDiGraph) Infer() {
	for _, u := range g.order {
		for _, v := range g.order {
			if u == v {
				continue
			}
			nu, nv := g.nodes[u], g.nodes[v]
			if nu.prop != nil && nv.prop != nil {
				continue
			}
			g.inferPair(u, v, nu, nv)
			g.pruneEmpty(u, v)
		}
	}
}

func (g *MultiDiGraph) inferPair(u, v string, nu, nv *node) {
	for _, val := range valences {
		if e, ok := g.edges[model.Key{Source: u, Target: v, Valence: val}]; ok {
			e.rel.Dialectics = e.rel.Dialectics.Remove(model.Grounded)
		}
	}

	if nu.arg != nil {
		if ok, _ := HasLegalPCS(*nu.arg); !ok {
			return
		}
	}
	if nv.arg != nil {
		if ok, _ := HasLegalPCS(*nv.arg); !ok {
			return
		}
	}

	anchor := u
	if nu.arg != nil {
		anchor = nu.arg.PCS[len(nu.arg.PCS)-1].PropositionLabel
	}
	targets := []string{v}
	if nv.arg != nil {
		targets = targets[:0]
		for _, entry := range nv.arg.PCS {
			if !entry.IsConclusion() {
				targets = append(targets, entry.PropositionLabel)
			}
		}
	}

	var entails, contradicts bool
	for _, t := range targets {
		entails = entails || g.entails(anchor, t)
		contradicts = contradicts || g.contradicts(anchor, t)
	}
	if entails {
		g.ground(u, v, model.Support)
	}
	if contradicts {
		g.ground(u, v, model.Attack)
	}
}

func (g *MultiDiGraph) entails(p, q string) bool {
	if p == q {
		return true
	}
	return g.axiomatic(p, q, model.Support)
}

func (g *MultiDiGraph) contradicts(p, q string) bool {
	return g.axiomatic(p, q, model.Attack) ||
		g.axiomatic(p, q, model.Contradict) ||
		g.axiomatic(q, p, model.Attack) ||
		g.axiomatic(q, p, model.Contradict)
}

func (g *MultiDiGraph) axiomatic(source, target string, valence model.Valence) bool {
	e, ok := g.edges[model.Key{Source: source, Target: target, Valence: valence}]
	return ok && e.rel.Dialectics.Has(model.Axiomatic)
}

func (g *MultiDiGraph) ground(u, v string, valence model.Valence) {
	key := model.Key{Source: u, Target: v, Valence: valence}
	if e, ok := g.edges[key]; ok {
		e.rel.Dialectics = e.rel.Dialectics.Add(model.Grounded)
		return
	}
	g.seq++
	g.edges[key] = &edge{
		rel: model.Relation{
			Source:     u,
			Target:     v,
			Valence:    valence,
			Dialectics: model.Dialectics(model.Grounded),
			Data:       map[string]any{},
		},
		seq: g.seq,
	}
}

func (g *MultiDiGraph) pruneEmpty(u, v string) {
	for _, val := range valences {
		key := model.Key{Source: u, Target: v, Valence: val}
		if e, ok := g.edges[key]; ok && e.rel.Dialectics.Empty() {
			delete(g.edges, key)
		}
	}
}
