package flow

// ValidateConnection decides whether src -> tgt may be added to g. It
// returns nil for a legal edge and a *ConnectionError otherwise. The graph
// is only read.
func ValidateConnection(g *Graph, src, tgt string) error {
	refuse := func(reason string) error {
		return &ConnectionError{Source: src, Target: tgt, Reason: reason}
	}

	srcKind, ok := g.kindOf(src)
	if !ok {
		return refuse(ReasonMissingNode)
	}
	tgtKind, ok := g.kindOf(tgt)
	if !ok {
		return refuse(ReasonMissingNode)
	}
	if src == tgt {
		return refuse(ReasonSelfLoop)
	}

	switch srcKind {
	case KindTool:
		return refuse(ReasonToolSource)
	case KindStart:
		if tgtKind != KindClass {
			return refuse(ReasonStartTarget)
		}
	case KindClass:
		switch tgtKind {
		case KindClass:
		case KindTool:
			if g.hasToolChild(src) {
				return refuse(ReasonSecondTool)
			}
		default:
			return refuse(ReasonClassTarget)
		}
	}

	if g.HasEdge(src, tgt) {
		return refuse(ReasonDuplicateEdge)
	}
	return nil
}
