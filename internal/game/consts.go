package game

const (
	SimHz          = 60.0 // fixed simulation tick rate
	Dt             = 1.0 / SimHz
	ReplayKeepS    = 30.0 // seconds of frames the ring retains
	UpdateRateHz   = 20.0 // per-client WS state pushes
	RaceMaxDrivers = 4

	Gravity = 9.81

	TrackHalfW      = 320.0 // playable area half extents, metres
	TrackHalfL      = 520.0
	WaypointRadius  = 22.0 // capture radius for progress and safe respawns
	RampSnapDist    = 0.4  // max drop the wheels follow before going airborne
	TrackWallBounce = 0.0  // velocity kept along a clamped axis

	VehicleMass        = 1200.0 // kg
	VehicleTopSpeed    = 48.0   // m/s
	VehicleAccel       = 2.6    // m/s^2 at full throttle
	VehicleBrakeDecel  = 2.8    // m/s^2 at full brake
	VehicleCoastDecel  = 0.9    // m/s^2 rolling off throttle
	VehicleTractionCap = 2.8    // m/s^2 ceiling on commanded velocity change
	VehicleWheelRadius = 0.34   // metres
	VehicleWheelbase   = 2.6    // metres
	VehicleSteerMax    = 0.55   // radians at full lock
	VehicleSteerRate   = 2.2    // rad/s steering wheel response
	VehicleMaxYawRate  = 1.1    // rad/s heading change ceiling

	CrashMinImpactN   = 3500.0  // below: road noise, no event
	CrashMajorN       = 5000.0  // at or above: major, replay triggers
	CrashCatastropheN = 15000.0 // above: catastrophic
	CrashLandingVy    = 15.0    // |vertical speed| on touchdown that counts as a crash
	CrashLandingCatVy = 25.0    // escalates a hard landing to catastrophic
	CrashGraceS       = 0.5     // detection suppressed after (re)initialization
	CrashCooldownS    = 2.0     // detection suppressed after an emission

	ReplayLookbackS = 10.0 // playback starts this far before the crash
	ReplayMaxS      = 10.0 // hard bound on one replay session

	CamWideDist      = 40.0
	CamWideHeight    = 20.0
	CamCloseDist     = 15.0
	CamCloseHeight   = 10.0
	CamStage1Frac    = 0.3 // wide shot ends, fraction of session
	CamStage2Frac    = 0.7 // pull-in ends, fraction of session
	CamZoomStartFrac = 0.8
	CamZoomEndFrac   = 0.9
	CamZoomPunch     = 0.3  // extra push-in depth inside the zoom window
	CamOrbitTurns    = 1.5  // revolutions per session
	CamDamping       = 0.05 // realized-pose convergence per tick
	CamFocalLift     = 1.5  // look-at raised above the focal point

	ChaseDist       = 9.0
	ChaseHeight     = 3.5
	ChaseStiffness  = 0.12
	ChaseShakeFreq  = 31.0 // wobble rate, rad/s
	ChaseShakeDecay = 2.5  // amplitude falloff per second

	ShakeMinor        = 0.5 // camera kick amplitudes by crash severity
	ShakeMajor        = 1.5
	ShakeCatastrophic = 3.0

	DamageMax          = 100.0
	DamageMinor        = 2.0
	DamageMajor        = 10.0
	DamageCatastrophic = 25.0
)
