package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_Columns(t *testing.T) {
	ticket := NewTicket(20).Columns("2x Espresso", "5.00")
	out := ticket.Bytes()

	assert.True(t, bytes.HasPrefix(out, []byte{esc, '@'}))
	assert.Contains(t, string(out), "2x Espresso     5.00\n")

	long := NewTicket(12).Columns("Caramel macchiato", "4.10").Bytes()
	assert.Contains(t, string(long), "Caramel 4.10\n")
}

func TestNew(t *testing.T) {
	p, err := New(KindNone, "", "")
	require.NoError(t, err)
	require.NoError(t, p.Print([]byte("hello")))
	assert.Len(t, p.(*MemoryPrinter).Jobs, 1)

	_, err = New(KindUSB, "", "")
	assert.Error(t, err)

	_, err = New("laser", "", "")
	assert.Error(t, err)
}
