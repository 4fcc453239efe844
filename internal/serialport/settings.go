package serialport

import (
	"errors"
	"time"
)

type DataBits int

const (
	Five DataBits = iota + 5
	Six
	Seven
	Eight
)

type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

type StopBits int

const (
	StopBitsOne StopBits = iota + 1
	StopBitsTwo
)

type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlSoftware
	FlowControlHardware
)

// Settings configures a real hardware port. It is out of this module's
// algorithmic scope (§1) but is still the shape the CLI's flag bundle
// populates before attempting to open a port.
type Settings struct {
	BaudRate    uint32
	Timeout     time.Duration
	DataBits    DataBits
	Parity      Parity
	StopBits    StopBits
	FlowControl FlowControl
}

// DefaultSettings mirrors the conventional 9600-8-N-1 defaults.
func DefaultSettings() Settings {
	return Settings{
		BaudRate:    9600,
		Timeout:     time.Second,
		DataBits:    Eight,
		Parity:      ParityNone,
		StopBits:    StopBitsOne,
		FlowControl: FlowControlNone,
	}
}

// ErrPortUnavailable is returned by Open for any port name other than the
// "loopback" sentinel: this module implements no OS-level serial driver,
// by design (see DESIGN.md).
var ErrPortUnavailable = errors.New("serialport: no hardware serial port driver is available in this build")

// Open resolves a port name to a Port. The name "loopback" always
// succeeds with a fresh in-memory Loopback; any other name fails with
// ErrPortUnavailable since no real driver is wired into this module.
func Open(name string, settings Settings) (Port, error) {
	if name == "loopback" {
		return NewLoopback(settings.Timeout), nil
	}
	return nil, ErrPortUnavailable
}
