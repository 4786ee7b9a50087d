package ease

import "math"

// Ease names an easing curve mapping progress in [0,1] to a blend factor.
// Most curves map 0 to 0 and 1 to 1; the Back and Elastic families overshoot
// in between.
type Ease int

const (
	Linear Ease = iota
	InSine
	OutSine
	InOutSine
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InExpo
	OutExpo
	InOutExpo
	InCirc
	OutCirc
	InOutCirc
	InElastic
	OutElastic
	InOutElastic
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce
	Flash
	InFlash
	OutFlash
	InOutFlash
)

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = 2 * math.Pi / 3
	elasticC5 = 2 * math.Pi / 4.5
	bounceN1  = 7.5625
	bounceD1  = 2.75
	flashRate = 8
)

func (e Ease) String() string {
	switch e {
	case Linear:
		return "Linear"
	case InSine:
		return "InSine"
	case OutSine:
		return "OutSine"
	case InOutSine:
		return "InOutSine"
	case InQuad:
		return "InQuad"
	case OutQuad:
		return "OutQuad"
	case InOutQuad:
		return "InOutQuad"
	case InCubic:
		return "InCubic"
	case OutCubic:
		return "OutCubic"
	case InOutCubic:
		return "InOutCubic"
	case InQuart:
		return "InQuart"
	case OutQuart:
		return "OutQuart"
	case InOutQuart:
		return "InOutQuart"
	case InQuint:
		return "InQuint"
	case OutQuint:
		return "OutQuint"
	case InOutQuint:
		return "InOutQuint"
	case InExpo:
		return "InExpo"
	case OutExpo:
		return "OutExpo"
	case InOutExpo:
		return "InOutExpo"
	case InCirc:
		return "InCirc"
	case OutCirc:
		return "OutCirc"
	case InOutCirc:
		return "InOutCirc"
	case InElastic:
		return "InElastic"
	case OutElastic:
		return "OutElastic"
	case InOutElastic:
		return "InOutElastic"
	case InBack:
		return "InBack"
	case OutBack:
		return "OutBack"
	case InOutBack:
		return "InOutBack"
	case InBounce:
		return "InBounce"
	case OutBounce:
		return "OutBounce"
	case InOutBounce:
		return "InOutBounce"
	case Flash:
		return "Flash"
	case InFlash:
		return "InFlash"
	case OutFlash:
		return "OutFlash"
	case InOutFlash:
		return "InOutFlash"
	}
	return ""
}

// Parse maps a document token to its curve.
func Parse(token string) (Ease, bool) {
	for e := Linear; e <= InOutFlash; e++ {
		if e.String() == token {
			return e, true
		}
	}
	return Linear, false
}

// Apply evaluates the curve at x. x is clamped to [0,1] first.
func Apply(e Ease, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	switch e {
	case InSine:
		return 1 - math.Cos(x*math.Pi/2)
	case OutSine:
		return math.Sin(x * math.Pi / 2)
	case InOutSine:
		return -(math.Cos(math.Pi*x) - 1) / 2
	case InQuad:
		return x * x
	case OutQuad:
		return 1 - (1-x)*(1-x)
	case InOutQuad:
		return inOutPow(x, 2)
	case InCubic:
		return x * x * x
	case OutCubic:
		return 1 - math.Pow(1-x, 3)
	case InOutCubic:
		return inOutPow(x, 3)
	case InQuart:
		return math.Pow(x, 4)
	case OutQuart:
		return 1 - math.Pow(1-x, 4)
	case InOutQuart:
		return inOutPow(x, 4)
	case InQuint:
		return math.Pow(x, 5)
	case OutQuint:
		return 1 - math.Pow(1-x, 5)
	case InOutQuint:
		return inOutPow(x, 5)
	case InExpo:
		return math.Pow(2, 10*x-10)
	case OutExpo:
		return 1 - math.Pow(2, -10*x)
	case InOutExpo:
		if x < 0.5 {
			return math.Pow(2, 20*x-10) / 2
		}
		return (2 - math.Pow(2, -20*x+10)) / 2
	case InCirc:
		return 1 - math.Sqrt(1-x*x)
	case OutCirc:
		return math.Sqrt(1 - (x-1)*(x-1))
	case InOutCirc:
		if x < 0.5 {
			return (1 - math.Sqrt(1-(2*x)*(2*x))) / 2
		}
		return (math.Sqrt(1-(-2*x+2)*(-2*x+2)) + 1) / 2
	case InElastic:
		return -math.Pow(2, 10*x-10) * math.Sin((x*10-10.75)*elasticC4)
	case OutElastic:
		return math.Pow(2, -10*x)*math.Sin((x*10-0.75)*elasticC4) + 1
	case InOutElastic:
		if x < 0.5 {
			return -(math.Pow(2, 20*x-10) * math.Sin((20*x-11.125)*elasticC5)) / 2
		}
		return (math.Pow(2, -20*x+10)*math.Sin((20*x-11.125)*elasticC5))/2 + 1
	case InBack:
		return backC3*x*x*x - backC1*x*x
	case OutBack:
		return 1 + backC3*math.Pow(x-1, 3) + backC1*math.Pow(x-1, 2)
	case InOutBack:
		if x < 0.5 {
			return (math.Pow(2*x, 2) * ((backC2+1)*2*x - backC2)) / 2
		}
		return (math.Pow(2*x-2, 2)*((backC2+1)*(x*2-2)+backC2) + 2) / 2
	case InBounce:
		return 1 - outBounce(1-x)
	case OutBounce:
		return outBounce(x)
	case InOutBounce:
		if x < 0.5 {
			return (1 - outBounce(1-2*x)) / 2
		}
		return (1 + outBounce(2*x-1)) / 2
	case Flash:
		return flash(x)
	case InFlash:
		return flash(x) * x
	case OutFlash:
		return flash(x)*(1-x) + x
	case InOutFlash:
		return flash(x)*(1-math.Abs(2*x-1)) + Apply(InOutSine, x)*math.Abs(2*x-1)
	}
	return x
}

func inOutPow(x, p float64) float64 {
	if x < 0.5 {
		return math.Pow(2, p-1) * math.Pow(x, p)
	}
	return 1 - math.Pow(-2*x+2, p)/2
}

func outBounce(x float64) float64 {
	switch {
	case x < 1/bounceD1:
		return bounceN1 * x * x
	case x < 2/bounceD1:
		x -= 1.5 / bounceD1
		return bounceN1*x*x + 0.75
	case x < 2.5/bounceD1:
		x -= 2.25 / bounceD1
		return bounceN1*x*x + 0.9375
	default:
		x -= 2.625 / bounceD1
		return bounceN1*x*x + 0.984375
	}
}

// flash alternates between the endpoints flashRate times over the duration.
func flash(x float64) float64 {
	if int(x*flashRate)%2 == 0 {
		return 0
	}
	return 1
}
