package dnd

import (
	"github.com/matzehuels/gridkit/pkg/collection"
)

// StepFunc returns the target after t in one direction. It returns the zero
// Target when there is none; with wrap set it returns the root target
// instead of running out.
type StepFunc func(d collection.KeyboardDelegate, t Target, wrap bool) Target

// NextTarget steps forward: before(a), on(a), before(b), ..., on(z),
// after(z), root. after(a) and before(b) are the same place, so only the
// last item offers after. The zero Target steps to the root.
func NextTarget(d collection.KeyboardDelegate, t Target, wrap bool) Target {
	if t.IsZero() {
		return Root()
	}

	var next Key
	pos := Before
	if t.Type == TargetItem {
		next = d.KeyBelow(t.Key)
		i := positionIndex(t.Position)
		if i >= 0 && i < len(Positions)-1 {
			p := Positions[i+1]
			if p != After || next == "" {
				return Item(t.Key, p)
			}
		}
		if t.Position == After {
			pos = On
		}
	} else {
		next = d.FirstKey()
	}

	if next == "" {
		if wrap {
			return Root()
		}
		return Target{}
	}
	return Item(next, pos)
}

// PreviousTarget steps backward: root, after(z), on(z), before(z), on(y),
// ..., before(a), root. The zero Target and the root step to after the last
// item.
func PreviousTarget(d collection.KeyboardDelegate, t Target, wrap bool) Target {
	var next Key
	pos := After
	if t.Type == TargetItem {
		next = d.KeyAbove(t.Key)
		i := positionIndex(t.Position)
		if i > 0 {
			return Item(t.Key, Positions[i-1])
		}
		if t.Position == Before {
			pos = On
		}
	} else {
		next = d.LastKey()
	}

	if next == "" {
		if wrap {
			return Root()
		}
		return Target{}
	}
	return Item(next, pos)
}

// NextValidTarget steps from t with step until accepts returns an operation
// other than OpCancel. It gives up, returning the zero Target, when step
// runs out, when it reaches current (the target already shown), or once
// the root has been visited twice, so it terminates even when nothing
// accepts the drop.
func NextValidTarget(d collection.KeyboardDelegate, t Target, step StepFunc, wrap bool, current Target, accepts func(Target) Operation) Target {
	seenRoot := 0
	op := OpCancel
	for {
		next := step(d, t, wrap)
		if next.IsZero() {
			return Target{}
		}
		t = next
		op = accepts(t)
		if t.IsRoot() {
			seenRoot++
		}
		if op != OpCancel || t == current || seenRoot >= 2 {
			break
		}
	}
	if op == OpCancel {
		return Target{}
	}
	return t
}
