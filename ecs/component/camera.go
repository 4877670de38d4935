package component

// Camera marks an entity as a view into the world. Its Transform is the
// world point shown at the centre of the viewport.
type Camera struct {
	Zoom float64
	// FollowGain is the exponential follow rate in 1/s.
	FollowGain float64
	// ClampStep limits FollowGain*dt to [0, 1] so a long frame cannot
	// overshoot the target.
	ClampStep bool
}

var CameraComponent = NewComponent[Camera]()
