package core

// ConfigTags is the number of configuration tags; higher tags are ignored
const ConfigTags = 24

// Configuration tags
const (
	TagChannel      = 0
	TagVelocity     = 1
	TagKeypressLEDs = 2
	TagFourBanks    = 3
	TagExpDigital   = 4
	TagExpAnalog    = 5
	TagAutoUpdate   = 6
	TagOutputMode   = 7
	TagCombos       = 8
	TagMultiplexer  = 9
	TagAnimations   = 10
	TagRotation     = 11
	TagTilt         = 12
	TagTiltMode     = 13
	TagTiltSens     = 14
	TagPitchSens    = 15
	TagTiltRange    = 16
	TagPitchRange   = 17
	TagTiltDead     = 18
	TagPitchDead    = 19
	TagTiltAxis     = 20
	TagPickSens     = 21
	TagSleepTime    = 22
	TagSideBank     = 23
)

// PullTags are the tags reported by a config response, in order
var PullTags = [...]uint8{
	TagChannel, TagVelocity, TagFourBanks, TagOutputMode, TagCombos,
	TagAnimations, TagRotation, TagTilt, TagTiltMode, TagTiltSens,
	TagPitchSens, TagTiltRange, TagPitchRange, TagTiltDead, TagPitchDead,
	TagTiltAxis, TagPickSens, TagSleepTime, TagSideBank,
}

var tagNames = [ConfigTags]string{
	"channel", "velocity", "keypress_leds", "four_banks", "exp_digital",
	"exp_analog", "auto_update", "output_mode", "combos", "multiplexer",
	"animations", "rotation", "tilt", "tilt_mode", "tilt_sens", "pitch_sens",
	"tilt_range", "pitch_range", "tilt_dead", "pitch_dead", "tilt_axis",
	"pick_sens", "sleep_time", "side_bank",
}

// TagName returns the name of a configuration tag
func TagName(tag uint8) string {
	if tag >= ConfigTags {
		return ""
	}
	return tagNames[tag]
}

// TagByName looks up a tag by its name
func TagByName(name string) (uint8, bool) {
	for i, n := range tagNames {
		if n == name {
			return uint8(i), true
		}
	}
	return 0, false
}

// ConfigRecord is a sparse set of tag values
type ConfigRecord struct {
	values  [ConfigTags]uint8
	present uint32
}

// DecodeConfigRecord parses (tag, value) pairs in order. Tags outside the
// table are skipped, a trailing odd byte is ignored and later pairs
// overwrite earlier ones.
func DecodeConfigRecord(data []byte) ConfigRecord {
	var r ConfigRecord
	for i := 0; i+1 < len(data); i += 2 {
		r.Set(data[i], data[i+1])
	}
	return r
}

// Set stores a value, returning false for tags outside the table
func (r *ConfigRecord) Set(tag, value uint8) bool {
	if tag >= ConfigTags {
		return false
	}
	r.values[tag] = value
	r.present |= 1 << tag
	return true
}

// Get returns the value of tag and whether it was set
func (r *ConfigRecord) Get(tag uint8) (uint8, bool) {
	if !r.Has(tag) {
		return 0, false
	}
	return r.values[tag], true
}

// Has reports whether tag was set
func (r *ConfigRecord) Has(tag uint8) bool {
	return tag < ConfigTags && r.present&(1<<tag) != 0
}

// Count returns the number of tags set
func (r *ConfigRecord) Count() int {
	n := 0
	for m := r.present; m != 0; m &= m - 1 {
		n++
	}
	return n
}

// AppendPairs appends the set tags as (tag, value) pairs in tag order
func (r *ConfigRecord) AppendPairs(dst []byte) []byte {
	for tag := uint8(0); tag < ConfigTags; tag++ {
		if v, ok := r.Get(tag); ok {
			dst = append(dst, tag, v)
		}
	}
	return dst
}

// directTags map one tag to one address without transform
var directTags = [...]struct {
	tag  uint8
	addr Address
}{
	{TagVelocity, AddrVelocity},
	{TagFourBanks, AddrFourBanks},
	{TagOutputMode, AddrOutputMode},
	{TagCombos, AddrCombos},
	{TagAnimations, AddrAnimations},
	{TagTiltSens, AddrTiltSens},
	{TagPitchSens, AddrPitchSens},
	{TagTiltRange, AddrTiltRange},
	{TagPitchRange, AddrPitchRange},
	{TagTiltDead, AddrTiltDead},
	{TagPitchDead, AddrPitchDead},
	{TagTiltAxis, AddrTiltAxis},
	{TagPickSens, AddrPickSens},
	{TagSleepTime, AddrSleepTime},
	{TagSideBank, AddrSideBank},
}

// StoreWrite is one planned store update
type StoreWrite struct {
	Addr  Address
	Value uint8
}

// maxConfigWrites bounds a plan: every direct tag plus channel, tilt mask
// and tilt mode
const maxConfigWrites = len(directTags) + 3

// ConfigPlan is the list of store writes a record implies
type ConfigPlan struct {
	writes [maxConfigWrites]StoreWrite
	n      int
}

func (p *ConfigPlan) add(addr Address, v uint8) {
	p.writes[p.n] = StoreWrite{Addr: addr, Value: v}
	p.n++
}

// Writes returns the planned writes
func (p *ConfigPlan) Writes() []StoreWrite {
	return p.writes[:p.n]
}

// Apply performs every planned write
func (p *ConfigPlan) Apply(st Store) {
	for _, w := range p.Writes() {
		st.Put(w.Addr, w.Value)
	}
}

// Verify reads back every planned address and returns the first
// mismatching write
func (p *ConfigPlan) Verify(st Store) (StoreWrite, bool) {
	for _, w := range p.Writes() {
		if st.Get(w.Addr) != w.Value {
			return w, false
		}
	}
	return StoreWrite{}, true
}

// PlanConfigWrites converts a record into store writes, applying the
// stored transforms. Only tags present in the record produce writes; a
// tilt or rotation without its partner keeps the stored half.
func PlanConfigWrites(r *ConfigRecord, st Store) ConfigPlan {
	var p ConfigPlan

	if v, ok := r.Get(TagChannel); ok {
		p.add(AddrChannel, v-1)
	}

	for _, d := range directTags {
		if v, ok := r.Get(d.tag); ok {
			p.add(d.addr, v)
		}
	}

	tilt, hasTilt := r.Get(TagTilt)
	rotation, hasRotation := r.Get(TagRotation)
	if hasTilt || hasRotation {
		mask := st.Get(AddrTiltMask)
		if !hasTilt {
			tilt = mask >> 4
		}
		if !hasRotation {
			rotation = mask & 0x03
		}
		p.add(AddrTiltMask, (tilt&0x0F)<<4|rotation&0x03)
	}

	if v, ok := r.Get(TagTiltMode); ok {
		p.add(AddrTiltMode, v+1)
	}

	return p
}

// ReadConfigRecord builds the pull response record from the store,
// applying the inverse transforms
func ReadConfigRecord(st Store) ConfigRecord {
	var r ConfigRecord

	r.Set(TagChannel, st.Get(AddrChannel)+1)
	for _, d := range directTags {
		r.Set(d.tag, st.Get(d.addr))
	}

	mask := st.Get(AddrTiltMask)
	r.Set(TagRotation, mask&0x03)
	r.Set(TagTilt, (mask>>4)&0x0F)
	r.Set(TagTiltMode, st.Get(AddrTiltMode)-1)

	return r
}

// AppendPullPairs appends the record's pairs in response order. Values
// are masked to seven bits to stay inside the SysEx frame.
func (r *ConfigRecord) AppendPullPairs(dst []byte) []byte {
	for _, tag := range PullTags {
		v, _ := r.Get(tag)
		dst = append(dst, tag, v&0x7F)
	}
	return dst
}
