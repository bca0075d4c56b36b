package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicket(t *testing.T) {
	fecha := time.Date(2026, 8, 31, 23, 59, 58, 0, time.Local)

	assert.Equal(t, "T1-20260831-0001", formatTicket(1, fecha, 1))
	assert.Equal(t, "T3-20260831-0142", formatTicket(3, fecha, 142))
	// Sequences past four digits widen instead of truncating
	assert.Equal(t, "T12-20260831-10001", formatTicket(12, fecha, 10001))
}

func TestFormatTicketFechaDelMismoReloj(t *testing.T) {
	// The date in the ticket comes from the timestamp the caller passes,
	// never from a second clock read.
	antes := time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local)
	despues := antes.Add(2 * time.Second)

	assert.Equal(t, "T1-20260831-0005", formatTicket(1, antes, 5))
	assert.Equal(t, "T1-20260901-0001", formatTicket(1, despues, 1))
}
