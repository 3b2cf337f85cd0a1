package protocol

import "errors"

var (
	ErrFifoFull = errors.New("packet fifo full")
	ErrNotSysEx = errors.New("message is not framed by F0 ... F7")

	ErrMessageTooLong = errors.New("message exceeds the SysEx buffer")
)
