package layout

import (
	"time"

	"syntree/geometry"
	"syntree/tree"
)

// Animator interpolates node positions toward layout targets over a fixed
// duration with an ease-out-cubic curve. Starting a new animation for a
// node cancels any in-flight animation for that node first, so two passes
// never fight over the same position.
type Animator struct {
	Duration time.Duration
	active   map[int]*animation
}

type animation struct {
	node     *tree.Node
	from, to geometry.Point
	start    time.Time
}

// NewAnimator creates an animator with the default duration.
func NewAnimator() *Animator {
	return &Animator{
		Duration: 300 * time.Millisecond,
		active:   make(map[int]*animation),
	}
}

// Start begins animating every targeted node from its current position.
func (a *Animator) Start(f *tree.Forest, targets map[int]geometry.Point, now time.Time) {
	for id, to := range targets {
		n := f.FindByID(id)
		if n == nil {
			continue
		}
		// Replacing the map entry cancels any in-flight animation.
		a.active[id] = &animation{
			node:  n,
			from:  n.Center(),
			to:    to,
			start: now,
		}
	}
}

// Step advances all animations to the given time, writing interpolated
// positions onto the nodes. It reports whether any animation remains.
func (a *Animator) Step(now time.Time) bool {
	for id, anim := range a.active {
		progress := 1.0
		if a.Duration > 0 {
			progress = float64(now.Sub(anim.start)) / float64(a.Duration)
		}
		eased := geometry.EaseOutCubic(progress)
		anim.node.X = anim.from.X + (anim.to.X-anim.from.X)*eased
		anim.node.Y = anim.from.Y + (anim.to.Y-anim.from.Y)*eased
		if progress >= 1 {
			anim.node.X = anim.to.X
			anim.node.Y = anim.to.Y
			delete(a.active, id)
		}
	}
	return len(a.active) > 0
}

// Cancel drops every in-flight animation, leaving positions wherever the
// last Step put them.
func (a *Animator) Cancel() {
	a.active = make(map[int]*animation)
}

// Animating reports whether any animation is in flight.
func (a *Animator) Animating() bool {
	return len(a.active) > 0
}
