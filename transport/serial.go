package transport

import (
	"github.com/pkg/errors"
	"go.bug.st/serial.v1"
)

// Open opens name at baud, 8 data bits, no parity, 1 stop bit.
func Open(name string, baud int) (serial.Port, error) {
	if name == "" {
		return nil, errors.New("no serial port given (set --port, port: in the config or DORMBELL_PORT)")
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, errors.Wrapf(err, "resetting %s", name)
	}
	return port, nil
}

func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "listing serial ports")
	}
	return ports, nil
}
