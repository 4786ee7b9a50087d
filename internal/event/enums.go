package event

type SpeedType int

const (
	SpeedBPM SpeedType = iota
	SpeedMultiplier
)

func (s SpeedType) String() string {
	switch s {
	case SpeedBPM:
		return "Bpm"
	case SpeedMultiplier:
		return "Multiplier"
	}
	return ""
}

func ParseSpeedType(token string) (SpeedType, bool) {
	return parseToken(token, SpeedBPM, SpeedMultiplier)
}

type TrackColorType int

const (
	ColorSingle TrackColorType = iota
	ColorStripes
	ColorGlow
	ColorBlink
	ColorSwitch
	ColorRainbow
	ColorVolume
)

func (c TrackColorType) String() string {
	switch c {
	case ColorSingle:
		return "Single"
	case ColorStripes:
		return "Stripes"
	case ColorGlow:
		return "Glow"
	case ColorBlink:
		return "Blink"
	case ColorSwitch:
		return "Switch"
	case ColorRainbow:
		return "Rainbow"
	case ColorVolume:
		return "Volume"
	}
	return ""
}

func ParseTrackColorType(token string) (TrackColorType, bool) {
	return parseToken(token, ColorSingle, ColorVolume)
}

type TrackStyle int

const (
	StyleStandard TrackStyle = iota
	StyleNeon
	StyleNeonLight
	StyleBasic
	StyleMinimal
	StyleGems
)

func (s TrackStyle) String() string {
	switch s {
	case StyleStandard:
		return "Standard"
	case StyleNeon:
		return "Neon"
	case StyleNeonLight:
		return "NeonLight"
	case StyleBasic:
		return "Basic"
	case StyleMinimal:
		return "Minimal"
	case StyleGems:
		return "Gems"
	}
	return ""
}

func ParseTrackStyle(token string) (TrackStyle, bool) {
	return parseToken(token, StyleStandard, StyleGems)
}

// AppearAnimation is how tiles enter ahead of the player. The zero value
// means "not specified" and leaves the inherited animation in place.
type AppearAnimation int

const (
	AppearUnset AppearAnimation = iota
	AppearNone
	AppearAssemble
	AppearAssembleFar
	AppearExtend
	AppearGrow
	AppearGrowSpin
	AppearFade
	AppearDrop
	AppearRise
)

func (a AppearAnimation) String() string {
	switch a {
	case AppearNone:
		return "None"
	case AppearAssemble:
		return "Assemble"
	case AppearAssembleFar:
		return "Assemble_Far"
	case AppearExtend:
		return "Extend"
	case AppearGrow:
		return "Grow"
	case AppearGrowSpin:
		return "Grow_Spin"
	case AppearFade:
		return "Fade"
	case AppearDrop:
		return "Drop"
	case AppearRise:
		return "Rise"
	}
	return ""
}

func ParseAppearAnimation(token string) (AppearAnimation, bool) {
	return parseToken(token, AppearNone, AppearRise)
}

// Fade reports the opacity ramp used while the tile appears. Movement
// components of the animation belong to the renderer.
func (a AppearAnimation) Fade() FadeStyle {
	if a == AppearUnset || a == AppearNone {
		return FadeNone
	}
	return FadeLinear
}

// DisappearAnimation is how tiles leave behind the player. The zero value
// means "not specified".
type DisappearAnimation int

const (
	DisappearUnset DisappearAnimation = iota
	DisappearNone
	DisappearScatter
	DisappearScatterFar
	DisappearRetract
	DisappearShrink
	DisappearShrinkSpin
	DisappearFade
)

func (d DisappearAnimation) String() string {
	switch d {
	case DisappearNone:
		return "None"
	case DisappearScatter:
		return "Scatter"
	case DisappearScatterFar:
		return "Scatter_Far"
	case DisappearRetract:
		return "Retract"
	case DisappearShrink:
		return "Shrink"
	case DisappearShrinkSpin:
		return "Shrink_Spin"
	case DisappearFade:
		return "Fade"
	}
	return ""
}

func ParseDisappearAnimation(token string) (DisappearAnimation, bool) {
	return parseToken(token, DisappearNone, DisappearFade)
}

func (d DisappearAnimation) Fade() FadeStyle {
	if d == DisappearUnset || d == DisappearNone {
		return FadeNone
	}
	return FadeLinear
}

type FadeStyle int

const (
	FadeNone FadeStyle = iota
	FadeLinear
)

// CameraFrame is the reference frame a camera offset is measured in. The
// zero value means "keep the current frame".
type CameraFrame int

const (
	FrameUnset CameraFrame = iota
	FramePlayer
	FrameTile
	FrameGlobal
	FrameLastPosition
)

func (f CameraFrame) String() string {
	switch f {
	case FramePlayer:
		return "Player"
	case FrameTile:
		return "Tile"
	case FrameGlobal:
		return "Global"
	case FrameLastPosition:
		return "LastPosition"
	}
	return ""
}

func ParseCameraFrame(token string) (CameraFrame, bool) {
	return parseToken(token, FramePlayer, FrameLastPosition)
}

type RepeatType int

const (
	RepeatBeat RepeatType = iota
	RepeatFloor
)

func (r RepeatType) String() string {
	switch r {
	case RepeatBeat:
		return "Beat"
	case RepeatFloor:
		return "Floor"
	}
	return ""
}

func ParseRepeatType(token string) (RepeatType, bool) {
	return parseToken(token, RepeatBeat, RepeatFloor)
}
