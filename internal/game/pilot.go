package game

import (
	"math"
	"time"
)

// Pilot is a scripted player. It synthesises controller input from the
// session state: it shoots the nearest enemy with the full two-handed draw,
// and slashes instead once an enemy is inside arm's reach and the sword is
// armed. Used by the headless report and by scenario tests.
type Pilot struct {
	Hand     Hand
	Dodge    bool          // sway the head side to side
	ArmReach float64       // m from head to the weapon hand
	PullRate float64       // m/s the off hand travels while drawing
	Rest     time.Duration // pause between shots

	phase  pilotPhase
	t      time.Duration
	pull   float64
	target Handle
	swing  float64
	wait   time.Duration
}

type pilotPhase int

const (
	pilotIdle pilotPhase = iota
	pilotNock
	pilotPull
	pilotLoose
)

const (
	pilotBladeMid = 0.45 // m along the blade the pilot tries to connect with
	pilotSwingArc = 0.15 // m of side-to-side hand travel per tick when slashing
	pilotSwayAmp  = 0.5  // m of head sway
	pilotSwayRate = 2 * math.Pi / 3
)

var (
	pilotRightRest = Vec3{0.25, -0.3, -0.3}
	pilotLeftRest  = Vec3{-0.25, -0.3, -0.3}
)

// NewPilot returns a right-handed pilot with dodging on.
func NewPilot() *Pilot {
	return &Pilot{
		Hand:     HandRight,
		Dodge:    true,
		ArmReach: 0.9,
		PullRate: 2.0,
		Rest:     100 * time.Millisecond,
		swing:    1,
	}
}

// HeadAt is where the pilot's head is t into the session.
func (p *Pilot) HeadAt(t time.Duration) Vec3 {
	h := defaultHead
	if p.Dodge {
		h.X += pilotSwayAmp * math.Sin(pilotSwayRate*t.Seconds())
	}
	return h
}

func restOffset(h Hand) Vec3 {
	if h == HandLeft {
		return pilotLeftRest
	}
	return pilotRightRest
}

// Next returns the input for the coming Step of dt.
func (p *Pilot) Next(s *Session, dt time.Duration) InputFrame {
	p.t += dt
	var in InputFrame
	head := p.HeadAt(p.t)
	in.Head = PoseAt(head)
	own := in.Hand(p.Hand)
	off := in.Hand(p.Hand.Other())
	rest := head.Add(restOffset(p.Hand))
	own.Pose = PoseAt(rest)
	off.Pose = PoseAt(head.Add(restOffset(p.Hand.Other())))

	w, ok := s.Weapon(p.Hand)
	if !ok || !s.Started() || s.Cleared() {
		return in
	}
	target, ok := p.pick(s, head)
	if !ok {
		// Nothing left to aim at; let go of anything still held.
		if p.phase == pilotPull {
			off.GripUp = true
			p.phase = pilotLoose
		}
		return in
	}
	tp := target.Position()

	if p.phase == pilotIdle && w.Mode == ModeMelee && w.IsReady && head.Dist(tp) <= p.ArmReach+pilotBladeMid {
		p.slash(own, head, tp)
		return in
	}

	aim := PoseAt(rest)
	aim.Orientation = LookRotation(tp.Sub(rest))
	own.Pose = aim
	grip := aim.Transform()
	nockOffset := s.Tuning().NockOffset

	switch p.phase {
	case pilotIdle:
		if p.wait > 0 {
			p.wait -= dt
			break
		}
		p.target = target.Handle
		if w.Mode == ModeMelee {
			own.TriggerDown = true
		}
		p.phase = pilotNock
	case pilotNock:
		if w.Mode != ModeRanged {
			p.phase = pilotIdle
			break
		}
		off.Pose = PoseAt(grip.Local(Vec3{Z: nockOffset}))
		off.GripDown = true
		p.pull = nockOffset
		p.phase = pilotPull
	case pilotPull:
		p.pull += p.PullRate * dt.Seconds()
		off.Pose = PoseAt(grip.Local(Vec3{Z: p.pull}))
		if p.pull >= s.Tuning().DrawMaxDist {
			off.GripUp = true
			p.phase = pilotLoose
		}
	case pilotLoose:
		own.TriggerUp = true
		p.wait = p.Rest
		p.phase = pilotIdle
	}
	return in
}

// slash whips the weapon hand across the enemy so the middle of the blade
// passes through it. Alternating sides each tick keeps the hand speed well
// above the swing threshold.
func (p *Pilot) slash(own *HandInput, head, target Vec3) {
	fwd := target.Sub(head).Normalize()
	side := fwd.Cross(Vec3{0, 1, 0}).Normalize()
	p.swing = -p.swing
	hand := target.Sub(fwd.Scale(pilotBladeMid)).Add(side.Scale(pilotSwingArc * p.swing))
	own.Pose = Pose{Position: hand, Orientation: LookRotation(fwd)}
}

// pick keeps the locked target during a draw, otherwise the nearest enemy.
func (p *Pilot) pick(s *Session, head Vec3) (*Enemy, bool) {
	if p.phase != pilotIdle {
		if e, ok := s.reg.Enemy(p.target); ok {
			return e, true
		}
	}
	var best *Enemy
	bestD := math.Inf(1)
	for _, e := range s.reg.Enemies() {
		if d := e.Position().Dist(head); d < bestD {
			best, bestD = e, d
		}
	}
	return best, best != nil
}
