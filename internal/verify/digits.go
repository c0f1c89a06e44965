package verify

import (
	"strings"

	"fieldverify/internal/domain"
)

// DigitBuffer models the four single-digit OTP entry slots. Entering a
// digit auto-advances focus; backspace on an empty slot moves focus back
// one slot and never deletes past the first. The buffer is independent of
// the resend cooldown: clearing one must not reset the other.
type DigitBuffer struct {
	slots [domain.OtpLength]byte // 0 means empty
	focus int
}

// Enter places a digit into the focused slot and advances focus.
func (b *DigitBuffer) Enter(d byte) error {
	if d < '0' || d > '9' {
		return ErrInvalidDigit
	}
	if b.focus >= domain.OtpLength {
		// All slots filled; extra input is ignored.
		return nil
	}
	b.slots[b.focus] = d
	b.focus++
	return nil
}

// Backspace clears the focused slot if it holds a digit; on an empty slot
// it moves focus back one and clears that slot instead.
func (b *DigitBuffer) Backspace() {
	if b.focus < domain.OtpLength && b.slots[b.focus] != 0 {
		b.slots[b.focus] = 0
		return
	}
	if b.focus > 0 {
		b.focus--
		b.slots[b.focus] = 0
	}
}

// Paste distributes the digits of s left-to-right starting at the focused
// slot, clipped to the remaining slots. Non-digit characters are skipped.
func (b *DigitBuffer) Paste(s string) {
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.focus >= domain.OtpLength {
			return
		}
		b.slots[b.focus] = byte(r)
		b.focus++
	}
}

// Clear empties every slot and returns focus to the first.
func (b *DigitBuffer) Clear() {
	b.slots = [domain.OtpLength]byte{}
	b.focus = 0
}

// Focus returns the index of the focused slot.
func (b *DigitBuffer) Focus() int {
	return b.focus
}

// Len returns the number of filled slots.
func (b *DigitBuffer) Len() int {
	n := 0
	for _, d := range b.slots {
		if d != 0 {
			n++
		}
	}
	return n
}

// Complete reports whether all four slots are filled.
func (b *DigitBuffer) Complete() bool {
	return b.Len() == domain.OtpLength
}

// Code returns the entered digits as a string.
func (b *DigitBuffer) Code() string {
	var sb strings.Builder
	for _, d := range b.slots {
		if d != 0 {
			sb.WriteByte(d)
		}
	}
	return sb.String()
}
