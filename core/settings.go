package core

import "gridpad/color"

// Output modes
const (
	OutputNotesOnly = 0
	OutputNotesCC   = 1
)

// Settings is the runtime copy of the stored configuration. Fields hold
// stored values, not wire values.
type Settings struct {
	Channel    uint8 // zero-based
	Velocity   uint8
	FourBanks  uint8
	OutputMode uint8
	Combos     uint8
	Animations uint8
	TiltMask   uint8
	TiltMode   uint8
	TiltSens   uint8
	PitchSens  uint8
	TiltRange  uint8
	PitchRange uint8
	TiltDead   uint8
	PitchDead  uint8
	TiltAxis   uint8
	PickSens   uint8
	SleepTime  uint8
	SideBank   uint8
}

// DefaultSettings are the factory values
var DefaultSettings = Settings{
	Channel:    2,
	Velocity:   127,
	FourBanks:  0,
	OutputMode: OutputNotesOnly,
	Combos:     1,
	Animations: 4,
	TiltMask:   0xF1,
	TiltMode:   2,
	TiltSens:   0x1E,
	PitchSens:  0x7F,
	TiltRange:  0x46,
	PitchRange: 0x3C,
	TiltDead:   0x0C,
	PitchDead:  0x7F,
	TiltAxis:   0,
	PickSens:   0x40,
	SleepTime:  0x3C,
	SideBank:   0,
}

type settingField struct {
	addr Address
	val  *uint8
}

// fields pairs each setting with its address
func (s *Settings) fields() [18]settingField {
	return [18]settingField{
		{AddrChannel, &s.Channel},
		{AddrVelocity, &s.Velocity},
		{AddrFourBanks, &s.FourBanks},
		{AddrOutputMode, &s.OutputMode},
		{AddrCombos, &s.Combos},
		{AddrAnimations, &s.Animations},
		{AddrTiltMask, &s.TiltMask},
		{AddrTiltMode, &s.TiltMode},
		{AddrTiltSens, &s.TiltSens},
		{AddrPitchSens, &s.PitchSens},
		{AddrTiltRange, &s.TiltRange},
		{AddrPitchRange, &s.PitchRange},
		{AddrTiltDead, &s.TiltDead},
		{AddrPitchDead, &s.PitchDead},
		{AddrTiltAxis, &s.TiltAxis},
		{AddrPickSens, &s.PickSens},
		{AddrSleepTime, &s.SleepTime},
		{AddrSideBank, &s.SideBank},
	}
}

// LoadSettings reads the settings from the store
func LoadSettings(st Store) Settings {
	var s Settings
	for _, f := range s.fields() {
		*f.val = st.Get(f.addr)
	}
	return s
}

// SaveSettings writes every setting to the store
func SaveSettings(st Store, s Settings) {
	for _, f := range s.fields() {
		st.Put(f.addr, *f.val)
	}
}

// FactoryReset restores default settings and color tables. Idle colors
// are off on the first bank and white on the second; active colors are
// blue then green.
func FactoryReset(st Store) {
	st.Put(AddrVersion, LayoutVersion)
	SaveSettings(st, DefaultSettings)

	for bank := uint8(0); bank < Banks; bank++ {
		idle, active := color.Off, color.Blue
		if bank > 0 {
			idle, active = color.White, color.Green
		}
		for b := uint8(0); b < color.ButtonCount; b++ {
			WriteColor(st, AddrColorsIdle, bank, b, idle.RGB())
			WriteColor(st, AddrColorsActive, bank, b, active.RGB())
		}
	}
	RecordEvent(EvtFactoryReset, 0, 0)
}

// CheckLayout restores factory defaults when the stored layout version
// does not match. It reports whether a reset happened.
func CheckLayout(st Store) bool {
	if st.Get(AddrVersion) == LayoutVersion {
		return false
	}
	DebugPrintln("[STORE] layout version mismatch, restoring defaults")
	FactoryReset(st)
	return true
}
