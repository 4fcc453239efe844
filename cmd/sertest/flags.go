package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/serialport"
)

// portFlags is the shared serial-port flag bundle attached to every
// port-opening subcommand: send, check, run, monitor.
type portFlags struct {
	port        string
	baud        uint32
	databits    int
	parity      string
	stopbits    int
	flowcontrol string
	timeout     time.Duration
	hex         bool
	binary      bool
}

// addPortFlags registers the shared bundle on cmd and returns the struct
// cobra will populate when the command runs.
func addPortFlags(cmd *cobra.Command) *portFlags {
	f := &portFlags{}
	fs := cmd.Flags()
	fs.StringVarP(&f.port, "port", "p", "loopback", "serial port name")
	fs.Uint32VarP(&f.baud, "baud", "b", 9600, "baud rate")
	fs.IntVarP(&f.databits, "databits", "d", 8, "data bits (5-8)")
	fs.StringVarP(&f.parity, "parity", "P", "none", "parity: none, even, odd")
	fs.IntVarP(&f.stopbits, "stopbits", "s", 1, "stop bits (1 or 2)")
	fs.StringVarP(&f.flowcontrol, "flowcontrol", "f", "none", "flow control: none, software, hardware")
	fs.DurationVarP(&f.timeout, "timeout", "t", time.Second, "default read timeout")
	fs.BoolVarP(&f.hex, "hex", "H", false, "decode/display responses as hex")
	fs.BoolVarP(&f.binary, "binary", "B", false, "decode/display responses as binary")
	return f
}

// outputFormat resolves the bundle's --hex/--binary pair to a TextFormat,
// defaulting to Text when neither is given. If both are given, --hex
// wins, matching flag declaration order.
func (f *portFlags) outputFormat() codec.TextFormat {
	switch {
	case f.hex:
		return codec.Hex
	case f.binary:
		return codec.Binary
	default:
		return codec.Text
	}
}

func parseParity(s string) (serialport.Parity, error) {
	switch s {
	case "none":
		return serialport.ParityNone, nil
	case "even":
		return serialport.ParityEven, nil
	case "odd":
		return serialport.ParityOdd, nil
	default:
		return 0, fmt.Errorf("unknown parity %q, expected none, even, or odd", s)
	}
}

func parseFlowControl(s string) (serialport.FlowControl, error) {
	switch s {
	case "none":
		return serialport.FlowControlNone, nil
	case "software":
		return serialport.FlowControlSoftware, nil
	case "hardware":
		return serialport.FlowControlHardware, nil
	default:
		return 0, fmt.Errorf("unknown flow control %q, expected none, software, or hardware", s)
	}
}

func parseDataBits(n int) (serialport.DataBits, error) {
	switch n {
	case 5:
		return serialport.Five, nil
	case 6:
		return serialport.Six, nil
	case 7:
		return serialport.Seven, nil
	case 8:
		return serialport.Eight, nil
	default:
		return 0, fmt.Errorf("unsupported data bits %d, expected 5-8", n)
	}
}

func parseStopBits(n int) (serialport.StopBits, error) {
	switch n {
	case 1:
		return serialport.StopBitsOne, nil
	case 2:
		return serialport.StopBitsTwo, nil
	default:
		return 0, fmt.Errorf("unsupported stop bits %d, expected 1 or 2", n)
	}
}

// settings turns the flag bundle into a serialport.Settings, validating
// the enum-shaped flags along the way.
func (f *portFlags) settings() (serialport.Settings, error) {
	parity, err := parseParity(f.parity)
	if err != nil {
		return serialport.Settings{}, err
	}
	flow, err := parseFlowControl(f.flowcontrol)
	if err != nil {
		return serialport.Settings{}, err
	}
	dataBits, err := parseDataBits(f.databits)
	if err != nil {
		return serialport.Settings{}, err
	}
	stopBits, err := parseStopBits(f.stopbits)
	if err != nil {
		return serialport.Settings{}, err
	}
	return serialport.Settings{
		BaudRate:    f.baud,
		Timeout:     f.timeout,
		DataBits:    dataBits,
		Parity:      parity,
		StopBits:    stopBits,
		FlowControl: flow,
	}, nil
}

// open resolves the bundle's settings and opens the named port.
func (f *portFlags) open() (serialport.Port, error) {
	settings, err := f.settings()
	if err != nil {
		return nil, err
	}
	return serialport.Open(f.port, settings)
}

// textFormatFlags is the smaller --hex-in/--binary-in pair send.go uses to
// pick an input format independently of the shared bundle's output format.
type textFormatFlags struct {
	hex    bool
	binary bool
}

func addInputFormatFlags(cmd *cobra.Command, f *textFormatFlags) {
	fs := cmd.Flags()
	fs.BoolVar(&f.hex, "hex-in", false, "encode the sent text as hex")
	fs.BoolVar(&f.binary, "binary-in", false, "encode the sent text as binary")
}

func (f *textFormatFlags) format() codec.TextFormat {
	switch {
	case f.hex:
		return codec.Hex
	case f.binary:
		return codec.Binary
	default:
		return codec.Text
	}
}
