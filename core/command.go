package core

import "errors"

// MaxCommands is the size of the command table; valid ids are 1..MaxCommands
const MaxCommands = 8

var (
	ErrTableSealed    = errors.New("command table is sealed")
	ErrInvalidCommand = errors.New("command id out of range")
)

// CommandHandler handles the payload of a vendor message (the bytes after
// the command id, end marker removed). Errors are reported to the debug
// log and never reach the sender.
type CommandHandler func(payload []byte) error

// Command is one installed handler
type Command struct {
	ID      uint8
	Name    string
	Handler CommandHandler
}

// CommandTable maps vendor command ids to handlers. It is filled during
// setup and is read-only once sealed.
type CommandTable struct {
	commands [MaxCommands]Command
	count    int
	sealed   bool
}

// Install registers a handler for id. Installing over an existing id
// replaces it.
func (t *CommandTable) Install(id uint8, name string, handler CommandHandler) error {
	if t.sealed {
		return ErrTableSealed
	}
	if id == 0 || id > MaxCommands {
		return ErrInvalidCommand
	}

	slot := &t.commands[id-1]
	if slot.Handler == nil {
		t.count++
	}
	*slot = Command{ID: id, Name: name, Handler: handler}
	return nil
}

// Seal makes the table read-only
func (t *CommandTable) Seal() {
	t.sealed = true
}

// GetCommand retrieves a command by id
func (t *CommandTable) GetCommand(id uint8) (*Command, bool) {
	if id == 0 || id > MaxCommands {
		return nil, false
	}
	cmd := &t.commands[id-1]
	if cmd.Handler == nil {
		return nil, false
	}
	return cmd, true
}

// Count returns the number of installed commands
func (t *CommandTable) Count() int {
	return t.count
}

// Dispatch runs the handler for id. Unknown ids are ignored so newer
// hosts can talk to older firmware.
func (t *CommandTable) Dispatch(id uint8, payload []byte) {
	cmd, ok := t.GetCommand(id)
	if !ok {
		DebugPrintln("[CMD] ignoring unknown command " + itoa(int(id)) + ": " + hexBytes(payload))
		return
	}

	if err := cmd.Handler(payload); err != nil {
		RecordEvent(EvtCommandError, id, uint32(len(payload)))
		DebugPrintln("[CMD] " + cmd.Name + ": " + err.Error())
	}
}

// Describe lists the installed commands, one "id name" per line
func (t *CommandTable) Describe() string {
	desc := ""
	for i := range t.commands {
		cmd := &t.commands[i]
		if cmd.Handler == nil {
			continue
		}
		desc += itoa(int(cmd.ID)) + " " + cmd.Name + "\n"
	}
	return desc
}
