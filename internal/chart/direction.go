package chart

import "fmt"

// Midspin is the angle sentinel for a zero-duration direction split.
const Midspin = 999.0

// IsMidspin reports whether angle is the midspin sentinel.
func IsMidspin(angle float64) bool { return angle == Midspin }

// directionAngle maps a path letter to its heading in degrees.
func directionAngle(letter byte) (float64, bool) {
	switch letter {
	case 'R':
		return 0, true
	case 'p':
		return 15, true
	case 'J':
		return 30, true
	case 'E':
		return 45, true
	case 'T':
		return 60, true
	case 'o':
		return 75, true
	case 'U':
		return 90, true
	case 'q':
		return 105, true
	case 'G':
		return 120, true
	case 'Q':
		return 135, true
	case 'H':
		return 150, true
	case 'W':
		return 165, true
	case 'L':
		return 180, true
	case 'x':
		return 195, true
	case 'N':
		return 210, true
	case 'Z':
		return 225, true
	case 'F':
		return 240, true
	case 'V':
		return 255, true
	case 'D':
		return 270, true
	case 'Y':
		return 285, true
	case 'B':
		return 300, true
	case 'C':
		return 315, true
	case 'M':
		return 330, true
	case 'A':
		return 345, true
	case '!':
		return Midspin, true
	}
	return 0, false
}

// AnglesFromPath expands a direction-letter string into tile angles.
func AnglesFromPath(path string) ([]float64, error) {
	angles := make([]float64, 0, len(path))
	for i := 0; i < len(path); i++ {
		a, ok := directionAngle(path[i])
		if !ok {
			return nil, &FieldError{Event: -1, Field: "pathData", Token: string(path[i]), Err: fmt.Errorf("%w at %d", ErrUnknownEnumValue, i)}
		}
		angles = append(angles, a)
	}
	return angles, nil
}
