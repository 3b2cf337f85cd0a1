// Package protocol implements the gridpad SysEx protocol over USB-MIDI packets
package protocol

// Version represents the gridpad firmware version
const Version = "0.3.0"

// Protocol constants
const (
	MaxSysEx = 512 // Reassembly buffer capacity, message bytes after the signature

	SysExStart = 0xF0
	SysExEnd   = 0xF7

	// Manufacturer ID (3-byte extended form)
	ManufacturerID0 = 0x00
	ManufacturerID1 = 0x01
	ManufacturerID2 = 0x79

	// Universal non-realtime prefix, "all call" device id
	UniversalNonRealtime = 0x7E
	AllCallDevice        = 0x7F

	// Raw markers that bypass command framing
	MarkerFlatList   = 0x6F
	MarkerCompressed = 0x5F
	MarkerClear      = 0x6E
)

// Identity reported in the identify response
const (
	DeviceFamily  = 0x06
	DeviceModel   = 0x40
	VersionYear   = 2017
	VersionMonth  = 3
	VersionDay    = 1
	identifySubID = 0x06
	identifyReq   = 0x01
	identifyReply = 0x02
)

// Command identifiers carried after the vendor signature
const (
	CommandPushConfig   = 0x01
	CommandPullConfig   = 0x02
	CommandSystem       = 0x03
	CommandBulkTransfer = 0x04
)

// VendorHeader is the fixed prefix of every vendor message
var VendorHeader = [4]byte{SysExStart, ManufacturerID0, ManufacturerID1, ManufacturerID2}

// IdentifyRequest is the universal device inquiry
var IdentifyRequest = []byte{SysExStart, UniversalNonRealtime, AllCallDevice, identifySubID, identifyReq, SysExEnd}

// IdentifyResponse returns the fixed device identity reply
func IdentifyResponse() []byte {
	return []byte{
		SysExStart, UniversalNonRealtime, AllCallDevice, identifySubID, identifyReply,
		ManufacturerID0, ManufacturerID1, ManufacturerID2,
		DeviceFamily,
		DeviceModel,
		byte(VersionYear >> 7),
		VersionYear & 0x7F,
		VersionMonth,
		VersionDay,
		SysExEnd,
	}
}

// Identity is a decoded identify response
type Identity struct {
	Family uint8
	Model  uint8
	Year   uint16
	Month  uint8
	Day    uint8
}

// ParseIdentity decodes the payload of a non-realtime identify reply
// (the bytes following F0 7E 7F, trailing F7 removed)
func ParseIdentity(payload []byte) (Identity, bool) {
	if len(payload) < 11 || payload[0] != identifySubID || payload[1] != identifyReply {
		return Identity{}, false
	}
	if payload[2] != ManufacturerID0 || payload[3] != ManufacturerID1 || payload[4] != ManufacturerID2 {
		return Identity{}, false
	}
	return Identity{
		Family: payload[5],
		Model:  payload[6],
		Year:   uint16(payload[7])<<7 | uint16(payload[8]&0x7F),
		Month:  payload[9],
		Day:    payload[10],
	}, true
}
