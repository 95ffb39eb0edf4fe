package printer

import (
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends raw ESC/POS tickets to a thermal printer.
type Printer interface {
	Print(data []byte) error
	Close() error
	IsConnected() bool
}

// Kind values accepted by New
const (
	KindUSB     = "usb"
	KindNetwork = "network"
	KindNone    = "none"
)

type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a device file such as /dev/usb/lp0.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error { return nil }

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetworkPrinter creates a printer reached over raw TCP, e.g. "192.168.1.50:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error { return nil }

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// MemoryPrinter keeps every ticket it receives. Used when no hardware is
// configured so tickets can still be inspected.
type MemoryPrinter struct {
	Jobs [][]byte
}

// NewNullPrinter returns a printer that accepts tickets without hardware
func NewNullPrinter() *MemoryPrinter {
	return &MemoryPrinter{}
}

func (p *MemoryPrinter) Print(data []byte) error {
	job := make([]byte, len(data))
	copy(job, data)
	p.Jobs = append(p.Jobs, job)
	return nil
}

func (p *MemoryPrinter) Close() error { return nil }

func (p *MemoryPrinter) IsConnected() bool { return false }

// New creates the printer for a configured kind.
func New(kind, usbPath, address string) (Printer, error) {
	switch kind {
	case KindUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case KindNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: PRINTER_ADDRESS is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case KindNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", kind)
	}
}
