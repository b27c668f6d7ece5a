package numrender

// EasingFunc maps normalized elapsed time in [0,1] to a progress value.
type EasingFunc func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOutCubic accelerates through the first half and decelerates
// through the second, the default growth curve for operation arrows.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}

// AnimState is the lifecycle of one growth animation.
type AnimState int

const (
	AnimIdle AnimState = iota
	AnimRunning
	AnimDone
)

// Animator advances a 0..1 proportion over a fixed duration under an
// easing function. It holds no clock: callers pass the current time, so
// the animation math stays pure and testable.
type Animator struct {
	state     AnimState
	startTime float64
	duration  float64
	easing    EasingFunc
}

// NewAnimator creates an idle animator. A non-positive duration animates
// instantly; a nil easing defaults to EaseInOutCubic.
func NewAnimator(duration float64, easing EasingFunc) *Animator {
	if easing == nil {
		easing = EaseInOutCubic
	}
	return &Animator{duration: duration, easing: easing}
}

// Start begins (or restarts) the animation at the given time.
func (a *Animator) Start(now float64) {
	a.startTime = now
	a.state = AnimRunning
}

// Cancel stops an in-flight animation and snaps it to complete.
func (a *Animator) Cancel() {
	if a.state == AnimRunning {
		a.state = AnimDone
	}
}

// State returns the animator's current lifecycle state as of now.
func (a *Animator) State(now float64) AnimState {
	if a.state == AnimRunning && a.elapsed(now) >= a.duration {
		a.state = AnimDone
	}
	return a.state
}

// Proportion returns the eased progress at the given time: 0 while idle,
// 1 once done.
func (a *Animator) Proportion(now float64) float64 {
	switch a.State(now) {
	case AnimIdle:
		return 0
	case AnimDone:
		return 1
	}
	if a.duration <= 0 {
		return 1
	}
	return a.easing(clamp(a.elapsed(now)/a.duration, 0, 1))
}

func (a *Animator) elapsed(now float64) float64 {
	return now - a.startTime
}
