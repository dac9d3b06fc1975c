package viewer

import (
	"time"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

// ControlState is the raw desktop input for one frame, already mapped into
// world space by the viewer.
type ControlState struct {
	Aim     game.Vec3 // world point under the cursor
	Trigger bool      // left button held
	Grip    bool      // right button held
	Swing   bool      // Q held
	Move    game.Vec3 // head strafe, unit per axis
}

const (
	armReach   = 0.9 // m from head to the sword hand while swinging
	swingArc   = 0.2 // m of lateral hand travel per tick
	pullRate   = 1.5 // m/s the off hand travels back while the grip is held
	strafeRate = 3.0 // m/s head movement
)

var (
	rightRest = game.Vec3{X: 0.25, Y: -0.3, Z: -0.3}
	leftRest  = game.Vec3{X: -0.25, Y: -0.3, Z: -0.3}
)

func restFor(h game.Hand) game.Vec3 {
	if h == game.HandLeft {
		return leftRest
	}
	return rightRest
}

// Controls turns desktop input into controller frames. The mouse stands in
// for the weapon hand; the right button stands in for the off hand gripping
// the nock and pulling straight back.
type Controls struct {
	Hand game.Hand
	Head game.Vec3

	prevTrigger bool
	prevGrip    bool
	pull        float64
	swing       float64
}

// NewControls starts a right-handed player at head.
func NewControls(head game.Vec3) *Controls {
	return &Controls{Hand: game.HandRight, Head: head, swing: 1}
}

// Frame builds the input for the coming step of dt.
func (c *Controls) Frame(st ControlState, tun game.Tuning, dt time.Duration) game.InputFrame {
	c.Head = c.Head.Add(st.Move.Scale(strafeRate * dt.Seconds()))

	var in game.InputFrame
	in.Head = game.PoseAt(c.Head)
	own := in.Hand(c.Hand)
	off := in.Hand(c.Hand.Other())

	rest := c.Head.Add(restFor(c.Hand))
	aim := game.Pose{Position: rest, Orientation: game.LookRotation(st.Aim.Sub(rest))}
	own.Pose = aim
	off.Pose = game.PoseAt(c.Head.Add(restFor(c.Hand.Other())))

	if st.Swing && !st.Trigger {
		fwd := st.Aim.Sub(c.Head).Normalize()
		side := fwd.Cross(game.Vec3{Y: 1}).Normalize()
		c.swing = -c.swing
		hand := c.Head.Add(fwd.Scale(armReach)).Add(side.Scale(swingArc * c.swing))
		own.Pose = game.Pose{Position: hand, Orientation: game.LookRotation(fwd)}
	}

	own.TriggerDown = st.Trigger && !c.prevTrigger
	own.TriggerUp = !st.Trigger && c.prevTrigger
	c.prevTrigger = st.Trigger

	grip := aim.Transform()
	switch {
	case st.Grip && !c.prevGrip:
		c.pull = tun.NockOffset
		off.GripDown = true
		off.Pose = game.PoseAt(grip.Local(game.Vec3{Z: c.pull}))
	case st.Grip:
		c.pull += pullRate * dt.Seconds()
		if c.pull > tun.DrawMaxDist {
			c.pull = tun.DrawMaxDist
		}
		off.Pose = game.PoseAt(grip.Local(game.Vec3{Z: c.pull}))
	case c.prevGrip:
		off.GripUp = true
		off.Pose = game.PoseAt(grip.Local(game.Vec3{Z: c.pull}))
		c.pull = 0
	}
	c.prevGrip = st.Grip
	return in
}

// Pull is the current off-hand distance behind the grip, 0 when not held.
func (c *Controls) Pull() float64 {
	if !c.prevGrip {
		return 0
	}
	return c.pull
}
