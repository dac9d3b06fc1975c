package game

import (
	"fmt"
	"strings"
)

// Hand identifies a tracked controller.
type Hand int

const (
	HandRight Hand = iota
	HandLeft
	handCount
)

func (h Hand) String() string {
	switch h {
	case HandRight:
		return "right"
	case HandLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == HandRight {
		return HandLeft
	}
	return HandRight
}

// ParseHand maps "right"/"left" to a Hand, ignoring case.
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right":
		return HandRight, nil
	case "left":
		return HandLeft, nil
	default:
		return 0, fmt.Errorf("unknown hand %q", s)
	}
}

// Pose is a tracked world position and orientation.
type Pose struct {
	Position    Vec3
	Orientation Quat
}

// PoseAt returns an unrotated pose at p.
func PoseAt(p Vec3) Pose {
	return Pose{Position: p, Orientation: QuatIdentity()}
}

// Transform converts the pose to a unit-scale transform.
func (p Pose) Transform() Transform {
	o := p.Orientation
	if o == (Quat{}) {
		o = QuatIdentity()
	}
	return Transform{Position: p.Position, Orientation: o, Scale: 1}
}

// HandInput is one controller's state for a tick. The edge flags follow the
// pose source contract: at most one press and one release per button per
// logical change. A press and a release in the same tick are processed in
// that order.
type HandInput struct {
	Pose        Pose
	TriggerDown bool
	TriggerUp   bool
	GripDown    bool
	GripUp      bool
}

// InputFrame is everything the pose/input source supplies for one tick.
type InputFrame struct {
	Head  Pose
	Hands [handCount]HandInput
}

// Hand returns the input for h.
func (f *InputFrame) Hand(h Hand) *HandInput {
	return &f.Hands[h]
}

// ClearEdges drops the per-tick button edges, keeping poses. Sources that
// reuse a frame between ticks call this after each Step.
func (f *InputFrame) ClearEdges() {
	for i := range f.Hands {
		f.Hands[i].TriggerDown = false
		f.Hands[i].TriggerUp = false
		f.Hands[i].GripDown = false
		f.Hands[i].GripUp = false
	}
}
