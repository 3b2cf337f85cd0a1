package core

import (
	"errors"

	"gridpad/protocol"
)

// System sub-commands
const (
	SystemNop          = 0
	SystemUpdateMode   = 1
	SystemFactoryReset = 2
)

// Config message direction byte
const (
	configRequest  = 0x00
	configResponse = 0x01
)

var ErrVerifyFailed = errors.New("stored config differs from pushed values")

// installCommands registers the vendor command handlers
func (d *Device) installCommands() error {
	cmds := []struct {
		id      uint8
		name    string
		handler CommandHandler
	}{
		{protocol.CommandPushConfig, "push_config", d.handlePushConfig},
		{protocol.CommandPullConfig, "pull_config", d.handlePullConfig},
		{protocol.CommandSystem, "system", d.handleSystem},
		{protocol.CommandBulkTransfer, "bulk_transfer", d.handleBulkTransfer},
	}
	for _, c := range cmds {
		if err := d.table.Install(c.id, c.name, c.handler); err != nil {
			return err
		}
	}
	return nil
}

// handlePushConfig decodes every pair before touching the store, writes
// the present tags, verifies them and echoes the stored configuration
func (d *Device) handlePushConfig(payload []byte) error {
	rec := DecodeConfigRecord(payload)
	plan := PlanConfigWrites(&rec, d.Store)
	plan.Apply(d.Store)

	var err error
	if w, ok := plan.Verify(d.Store); ok {
		d.Indicator.Acknowledge()
	} else {
		RecordEvent(EvtVerifyFailed, uint8(w.Addr), uint32(w.Value))
		err = ErrVerifyFailed
	}

	if sendErr := d.SendConfig(); err == nil {
		err = sendErr
	}
	d.ReloadSettings()
	return err
}

// handlePullConfig answers a config request; anything else is ignored
func (d *Device) handlePullConfig(payload []byte) error {
	if len(payload) == 0 || payload[0] != configRequest {
		return nil
	}
	return d.SendConfig()
}

// SendConfig emits the stored configuration as a pull response
func (d *Device) SendConfig() error {
	rec := ReadConfigRecord(d.Store)

	var payload [1 + 2*len(PullTags)]byte
	payload[0] = configResponse
	rec.AppendPullPairs(payload[1:1])

	msg, err := protocol.VendorMessage(&d.scratch, protocol.CommandPullConfig, payload[:]...)
	if err != nil {
		return err
	}
	return d.send(msg)
}

func (d *Device) handleSystem(payload []byte) error {
	if len(payload) == 0 {
		return ErrShortPayload
	}

	switch payload[0] {
	case SystemNop:

	case SystemUpdateMode:
		DebugPrintln("[SYS] entering update mode")
		d.Indicator.EnterUpdateMode()
		if err := d.Render(); err != nil {
			DebugPrintln("[SYS] render: " + err.Error())
		}
		if d.Bootloader != nil {
			d.Bootloader()
		}

	case SystemFactoryReset:
		FactoryReset(d.Store)
		d.Indicator.ConfirmReset()
		err := d.SendConfig()
		d.ReloadSettings()
		return err
	}
	return nil
}

func (d *Device) handleBulkTransfer(payload []byte) error {
	if len(payload) < 2 {
		return ErrShortPayload
	}

	switch payload[0] {
	case BulkPush:
		part, err := DecodeBulkPart(payload)
		if err != nil {
			RecordEvent(EvtPartRejected, part.Part, uint32(part.Tag))
			return err
		}
		StoreBulkPart(d.Store, &part)
		return nil

	case BulkPull:
		return StreamColorTable(d.Store, payload[1], &d.scratch, d.output)

	default:
		return ErrUnknownBulk
	}
}
