package domain

// ConnectGesture tracks a two-step connect: pick a source, then a target.
// The zero value is idle.
type ConnectGesture struct {
	source string
}

// Begin selects the source node, replacing any earlier selection.
func (g *ConnectGesture) Begin(sourceID string) {
	g.source = sourceID
}

// Source returns the selected source and whether a gesture is active.
func (g *ConnectGesture) Source() (string, bool) {
	return g.source, g.source != ""
}

// Active reports whether a source is selected.
func (g *ConnectGesture) Active() bool {
	return g.source != ""
}

// Complete ends the gesture on targetID and returns the pair to connect.
// ok is false when no gesture was active or the target is the source.
func (g *ConnectGesture) Complete(targetID string) (from, to string, ok bool) {
	from = g.source
	g.source = ""
	if from == "" || targetID == "" || from == targetID {
		return "", "", false
	}
	return from, targetID, true
}

// Cancel returns to idle.
func (g *ConnectGesture) Cancel() {
	g.source = ""
}
