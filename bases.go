package mirror

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type (
	// baseLink locates a transitive base inside a derived struct.
	baseLink struct {
		typ  *Type
		idxs []int
	}
)

// LinearBases returns every transitive base of the struct type typ, each
// once, ordered so that a base precedes the types embedding it.
func LinearBases(typ *Type) []*Type {
	links := linearBases(typ)
	out := make([]*Type, len(links))
	for idx, link := range links {
		out[idx] = link.typ
	}
	return out
}

func linearBases(typ *Type) []baseLink {
	if len(typ.Bases()) == 0 {
		return nil
	}
	ids := map[*Type]int64{}
	var typs []*Type
	node := func(typ *Type) graph.Node {
		id, ok := ids[typ]
		if !ok {
			id = int64(len(typs))
			ids[typ] = id
			typs = append(typs, typ)
		}
		return simple.Node(id)
	}

	gra := simple.NewDirectedGraph()
	gra.AddNode(node(typ))
	paths := map[*Type][]int{typ: nil}
	var order []*Type
	queue := []*Type{typ}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for idx := 0; idx < cur.rtyp.NumField(); idx++ {
			rtyp := embeddedBase(cur.rtyp.Field(idx))
			if rtyp == nil {
				continue
			}
			base := TypeFromReflect(rtyp)
			frm, to := node(base), node(cur)
			if gra.Node(frm.ID()) == nil {
				gra.AddNode(frm)
			}
			if frm.ID() != to.ID() && !gra.HasEdgeFromTo(frm.ID(), to.ID()) {
				gra.SetEdge(gra.NewEdge(frm, to))
			}
			if _, ok := paths[base]; ok {
				continue
			}
			idxs := make([]int, len(paths[cur])+1)
			copy(idxs, paths[cur])
			idxs[len(paths[cur])] = idx
			paths[base] = idxs
			order = append(order, base)
			queue = append(queue, base)
		}
	}

	sorted, err := topo.SortStabilized(gra, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(fst, sec graph.Node) bool {
			return fst.ID() < sec.ID()
		})
	})
	if err != nil {
		// embedded pointers can form cycles. deepest discovered first.
		logf("cyclic embedding under %s: %v", typ, err)
		out := make([]baseLink, 0, len(order))
		for idx := len(order) - 1; idx >= 0; idx-- {
			out = append(out, baseLink{typ: order[idx], idxs: paths[order[idx]]})
		}
		return out
	}
	out := make([]baseLink, 0, len(order))
	for _, nod := range sorted {
		base := typs[nod.ID()]
		if base == typ {
			continue
		}
		out = append(out, baseLink{typ: base, idxs: paths[base]})
	}
	return out
}

// nearest returns links ordered by embedding depth, shallowest first.
func nearest(links []baseLink) []baseLink {
	out := slices.Clone(links)
	slices.SortStableFunc(out, func(fst, sec baseLink) bool {
		return len(fst.idxs) < len(sec.idxs)
	})
	return out
}
