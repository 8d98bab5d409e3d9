package camera

import "math"

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 pins t to [0, 1].
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// easeInOutCubic applies smooth symmetric easing.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// easeOutCubic decelerates toward the end.
func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// easeIntro is the asymmetric zoom-in curve: a fast-start ease-out raised
// to a power above one, which softens the takeoff while keeping the
// landing slow.
func easeIntro(t float64) float64 {
	return math.Pow(easeOutCubic(clamp01(t)), 1.4)
}
