package game

import (
	"fmt"
	"time"
)

// WeaponMode is the dual weapon's current form.
type WeaponMode int

const (
	ModeMelee  WeaponMode = iota // sword, initial
	ModeRanged                   // bow
)

func (m WeaponMode) String() string {
	if m == ModeRanged {
		return "ranged"
	}
	return "melee"
}

// Weapon is the per-hand sword/bow. It is created at game start and lives for
// the whole session.
type Weapon struct {
	Handle       Handle
	Hand         Hand
	Mode         WeaponMode
	DrawProgress float64 // meaningful only while IsDrawing
	IsDrawing    bool
	IsReady      bool // melee hit testing armed
	Visual       Visual
	CreatedAt    time.Duration

	Pose       Pose
	SwingSpeed float64 // m/s from the last two poses
	prevPos    Vec3
	hasPrev    bool

	revertGen int // bumps invalidate pending reverts
	warned    bool
	shots     int
}

func newWeapon(h Hand, now time.Duration, v Visual) *Weapon {
	return &Weapon{Hand: h, Mode: ModeMelee, Visual: v, CreatedAt: now, Pose: PoseAt(Vec3{})}
}

// Transform returns the weapon's world transform, scaled by its model.
func (w *Weapon) Transform() Transform {
	t := w.Pose.Transform()
	if w.Visual.Scale > 0 {
		t.Scale = w.Visual.Scale
	}
	return t
}

// NockPoint is where the off hand must grab to start a draw.
func (w *Weapon) NockPoint(tun Tuning) Vec3 {
	return w.Pose.Transform().Local(Vec3{Z: tun.NockOffset})
}

// Shots returns how many arrows this weapon has released.
func (w *Weapon) Shots() int { return w.shots }

func (w *Weapon) label() string { return "W" + w.Hand.String()[:1] }

// DrawProgressFor maps hand separation to draw progress, clamped to [0,1].
func DrawProgressFor(dist float64, tun Tuning) float64 {
	return clamp01((dist - tun.DrawMinDist) / (tun.DrawMaxDist - tun.DrawMinDist))
}

// ArrowSpeed is the launch speed at a given draw.
func ArrowSpeed(draw float64, tun Tuning) float64 {
	return tun.ArrowBaseSpeed + tun.ArrowDrawSpeed*draw
}

// --- Per-tick update ---

// tickWeapon routes this tick's input to w: trigger edges of its own hand and
// grip edges of the other hand, then the draw and swing updates.
func (s *Session) tickWeapon(w *Weapon, in *InputFrame, dt time.Duration) {
	own := in.Hand(w.Hand)
	off := in.Hand(w.Hand.Other())
	w.Pose = own.Pose
	if w.Pose.Orientation == (Quat{}) {
		w.Pose.Orientation = QuatIdentity()
	}

	if own.TriggerDown {
		s.reg.ActiveHand = w.Hand
		w.revertGen++
		if w.Mode == ModeMelee {
			s.setMode(w, ModeRanged)
		}
	}

	if off.GripDown && w.Mode == ModeRanged && !w.IsDrawing {
		if off.Pose.Position.Dist(w.NockPoint(s.tun)) < s.tun.NockReach {
			w.IsDrawing = true
			w.revertGen++
			w.DrawProgress = DrawProgressFor(off.Pose.Position.Dist(w.Pose.Position), s.tun)
			s.emit(Event{Kind: EventDrawStarted, Handle: w.Handle, Hand: w.Hand, Position: w.Pose.Position})
			s.simLog.Add(s.tick, w.label(), "weapon", "draw_start", "nocked", 0)
		}
	}

	if w.IsDrawing {
		w.DrawProgress = DrawProgressFor(off.Pose.Position.Dist(w.Pose.Position), s.tun)
	}

	if off.GripUp && w.IsDrawing {
		s.release(w)
	}

	if own.TriggerUp && w.Mode == ModeRanged && !w.IsDrawing {
		w.revertGen++
		s.setMode(w, ModeMelee)
	}

	s.sampleSwing(w, dt)
	if w.Mode == ModeMelee && w.IsReady {
		s.meleeTest(w)
	}
}

// release ends a draw: below the misfire threshold nothing is launched,
// otherwise an arrow leaves along the forward axis. Either way the weapon
// goes back to melee after the revert delay.
func (s *Session) release(w *Weapon) {
	draw := w.DrawProgress
	w.IsDrawing = false
	w.DrawProgress = 0

	if draw < s.tun.MisfireThreshold {
		s.reg.ShotsCancel++
		s.emit(Event{Kind: EventDrawCancelled, Handle: w.Handle, Hand: w.Hand, Value: draw})
		s.simLog.Add(s.tick, w.label(), "weapon", "draw_cancel", fmt.Sprintf("draw=%.2f", draw), draw)
	} else {
		t := w.Pose.Transform()
		speed := ArrowSpeed(draw, s.tun)
		s.spawnProjectile(OwnerPlayer, w.Handle, t.Position, t.Forward(), speed, s.now, ModelArrow)
		s.reg.ShotsFired++
		w.shots++
		s.haptic(w.Hand, 0.3+0.7*draw, 100*time.Millisecond)
		s.simLog.Add(s.tick, w.label(), "weapon", "fire", fmt.Sprintf("draw=%.2f speed=%.1f", draw, speed), speed)
	}

	w.revertGen++
	gen := w.revertGen
	s.sched.After(s.now, s.tun.RevertDelay, w.Handle, func(time.Duration) {
		if w.revertGen != gen || w.IsDrawing {
			return
		}
		s.setMode(w, ModeMelee)
	})
}

func (s *Session) setMode(w *Weapon, m WeaponMode) {
	if w.Mode == m {
		return
	}
	w.Mode = m
	if m == ModeMelee {
		w.IsDrawing = false
		w.DrawProgress = 0
	}
	// A stale sample would read as a swing the moment the sword comes back.
	w.hasPrev = false
	if w.Hand == s.reg.ActiveHand {
		s.reg.Mode = m
	}
	s.emit(Event{Kind: EventModeChanged, Handle: w.Handle, Hand: w.Hand, Mode: m})
	s.haptic(w.Hand, 0.3, 50*time.Millisecond)
	s.simLog.Add(s.tick, w.label(), "weapon", "mode", m.String(), 0)
}

// sampleSwing derives the hand speed from consecutive world positions.
func (s *Session) sampleSwing(w *Weapon, dt time.Duration) {
	pos := w.Pose.Position
	if w.hasPrev && dt > 0 {
		w.SwingSpeed = pos.Dist(w.prevPos) / dt.Seconds()
	} else {
		w.SwingSpeed = 0
	}
	w.prevPos = pos
	w.hasPrev = true
}
