package game

import "math"

// DriverInput is the per-tick control state for one vehicle.
type DriverInput struct {
	Throttle float64 // 0..1
	Brake    float64 // 0..1
	Steer    float64 // -1..1, positive steers right
}

func sanitizeInput(in DriverInput) DriverInput {
	if math.IsNaN(in.Throttle) {
		in.Throttle = 0
	}
	if math.IsNaN(in.Brake) {
		in.Brake = 0
	}
	if math.IsNaN(in.Steer) {
		in.Steer = 0
	}
	in.Throttle = Clamp(in.Throttle, 0, 1)
	in.Brake = Clamp(in.Brake, 0, 1)
	in.Steer = Clamp(in.Steer, -1, 1)
	return in
}

// Vehicle is an arcade car: planar velocity chases the heading under a
// traction cap, wheels follow terrain while grounded, ballistic when
// airborne. The traction cap keeps every commanded velocity change
// below the impact detector's floor, so ordinary driving stays silent
// and only walls and hard landings read as hits.
type Vehicle struct {
	Pos      Vec3
	Vel      Vec3
	Yaw      float64
	YawRate  float64
	Rot      Quat
	Wheels   [4]float64 // spin angles, radians, unwrapped
	Steer    float64    // current steering angle, radians
	Mass     float64
	Grounded bool
	Damage   float64

	// KinematicOverride disables integration so replay playback can
	// drive the transform directly.
	KinematicOverride bool

	LastWaypoint int
}

func NewVehicle(slot int, trk *Track) *Vehicle {
	v := &Vehicle{Mass: VehicleMass, Grounded: true}
	pos, yaw := trk.SpawnPose(slot)
	v.place(pos, yaw)
	return v
}

func (v *Vehicle) place(pos Vec3, yaw float64) {
	v.Pos = pos
	v.Yaw = yaw
	v.Rot = QuatFromYaw(yaw)
	v.Vel = Vec3{}
	v.YawRate = 0
	v.Steer = 0
	v.Grounded = true
}

// RespawnAt parks the repaired car at a waypoint, facing its heading.
func (v *Vehicle) RespawnAt(wp TrackWaypoint, trk *Track) {
	pos := wp.Pos
	pos.Y = trk.GroundHeight(pos)
	v.place(pos, wp.Yaw)
	v.Damage = 0
	v.KinematicOverride = false
}

func (v *Vehicle) SetKinematicOverride(on bool) { v.KinematicOverride = on }

// Sample exposes the kinematic state the crash detector inspects.
func (v *Vehicle) Sample() KinematicSample {
	return KinematicSample{Pos: v.Pos, Vel: v.Vel, MassKg: v.Mass, Grounded: v.Grounded}
}

// Frame captures the vehicle into a replay frame stamped at t.
func (v *Vehicle) Frame(t float64) ReplayFrame {
	return ReplayFrame{
		T:      t,
		Pos:    v.Pos,
		Rot:    v.Rot,
		Vel:    v.Vel,
		AngVel: Vec3{Y: v.YawRate},
		Wheels: v.Wheels,
		Steer:  v.Steer,
	}
}

// ApplyReplayFrame drives the transform straight from recorded data.
// Only meaningful while the kinematic override is on.
func (v *Vehicle) ApplyReplayFrame(f ReplayFrame) {
	v.Pos = f.Pos
	v.Rot = f.Rot.Normalize()
	v.Yaw = v.Rot.Yaw()
	v.Vel = f.Vel
	v.YawRate = f.AngVel.Y
	v.Wheels = f.Wheels
	v.Steer = f.Steer
}

// ApplyCrashDamage accumulates panel damage for a severity band.
func (v *Vehicle) ApplyCrashDamage(sev Severity) {
	switch sev {
	case SeverityMinor:
		v.Damage += DamageMinor
	case SeverityMajor:
		v.Damage += DamageMajor
	case SeverityCatastrophic:
		v.Damage += DamageCatastrophic
	}
	if v.Damage > DamageMax {
		v.Damage = DamageMax
	}
}

// topSpeed degrades with accumulated damage, down 30% at full damage.
func (v *Vehicle) topSpeed() float64 {
	return VehicleTopSpeed * (1 - 0.3*v.Damage/DamageMax)
}

// Integrate advances the car one tick. No-op under kinematic override.
func (v *Vehicle) Integrate(in DriverInput, trk *Track, dt float64) {
	if v.KinematicOverride || dt <= 0 {
		return
	}
	in = sanitizeInput(in)

	steerTarget := in.Steer * VehicleSteerMax
	v.Steer = moveToward(v.Steer, steerTarget, VehicleSteerRate*dt)

	planar := Vec3{X: v.Vel.X, Z: v.Vel.Z}
	speed := planar.Len()

	if v.Grounded {
		v.YawRate = Clamp(speed/VehicleWheelbase*math.Tan(v.Steer),
			-VehicleMaxYawRate, VehicleMaxYawRate)
	} else {
		// airborne spin bleeds off slowly
		v.YawRate *= math.Max(0, 1-0.5*dt)
	}
	v.Yaw += v.YawRate * dt
	v.Rot = QuatFromYaw(v.Yaw)

	if v.Grounded {
		fwd := Vec3{X: math.Sin(v.Yaw), Z: math.Cos(v.Yaw)}
		target := fwd.Scale(in.Throttle * v.topSpeed())
		rate := VehicleAccel
		switch {
		case in.Brake > 0:
			target = Vec3{}
			rate = VehicleBrakeDecel * in.Brake
		case in.Throttle <= 0.01:
			rate = VehicleCoastDecel
		}
		rate = math.Min(rate, VehicleTractionCap)
		planar = moveTowardsVec(planar, target, rate*dt)
		v.Vel.X, v.Vel.Z = planar.X, planar.Z
	}

	next := v.Pos
	next.X += v.Vel.X * dt
	next.Z += v.Vel.Z * dt

	next, hitX, hitZ := trk.ClampToBounds(next)
	if hitX {
		v.Vel.X = -v.Vel.X * TrackWallBounce
	}
	if hitZ {
		v.Vel.Z = -v.Vel.Z * TrackWallBounce
	}

	ground := trk.GroundHeight(next)
	if v.Grounded {
		if ground >= v.Pos.Y-RampSnapDist {
			// wheels follow the surface; climbing a ramp builds the
			// vertical speed the car launches with at the crest
			v.Vel.Y = (ground - v.Pos.Y) / dt
			next.Y = ground
		} else {
			v.Grounded = false
		}
	}
	if !v.Grounded {
		v.Vel.Y -= Gravity * dt
		next.Y = v.Pos.Y + v.Vel.Y*dt
		if next.Y <= ground {
			next.Y = ground
			v.Grounded = true
			v.Vel.Y = 0
		}
	}
	v.Pos = next

	spin := speed / VehicleWheelRadius * dt
	for i := range v.Wheels {
		v.Wheels[i] += spin
	}

	v.LastWaypoint = trk.CaptureWaypoint(v.Pos, v.LastWaypoint)
}
