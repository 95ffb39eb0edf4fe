package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment values for Align
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// Character sizes for Size
const (
	SizeNormal byte = 0x00
	SizeDouble byte = 0x11
	SizeTall   byte = 0x01
)

// Ticket builds an ESC/POS byte stream. Width is in characters: 32 for
// 58mm paper, 48 for 80mm paper.
type Ticket struct {
	buf   bytes.Buffer
	width int
}

// NewTicket starts a ticket and resets the printer.
func NewTicket(width int) *Ticket {
	if width <= 0 {
		width = 32
	}
	t := &Ticket{width: width}
	t.buf.Write([]byte{esc, '@'})
	return t
}

// Width returns the line width in characters
func (t *Ticket) Width() int { return t.width }

func (t *Ticket) Align(a byte) *Ticket {
	t.buf.Write([]byte{esc, 'a', a})
	return t
}

func (t *Ticket) Bold(on bool) *Ticket {
	var b byte
	if on {
		b = 1
	}
	t.buf.Write([]byte{esc, 'E', b})
	return t
}

func (t *Ticket) Size(s byte) *Ticket {
	t.buf.Write([]byte{gs, '!', s})
	return t
}

// Line writes text followed by a line feed
func (t *Ticket) Line(s string) *Ticket {
	t.buf.WriteString(s)
	t.buf.WriteByte(lf)
	return t
}

func (t *Ticket) Feed(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(lf)
	}
	return t
}

// Rule prints a full-width line of ch
func (t *Ticket) Rule(ch rune) *Ticket {
	return t.Line(strings.Repeat(string(ch), t.width))
}

// Columns prints left and right on one line, truncating left when they do not fit.
//
//	"2x Espresso                5.00"
func (t *Ticket) Columns(left, right string) *Ticket {
	room := t.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	pad := t.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	return t.Line(left + strings.Repeat(" ", pad) + right)
}

// Cut feeds and performs a partial cut
func (t *Ticket) Cut() *Ticket {
	t.Feed(3)
	t.buf.Write([]byte{gs, 'V', 0x01})
	return t
}

// Bytes returns the accumulated ESC/POS stream
func (t *Ticket) Bytes() []byte {
	return t.buf.Bytes()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
