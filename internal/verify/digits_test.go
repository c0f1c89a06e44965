package verify

import (
	"errors"
	"testing"
)

func TestDigitBuffer_EnterAdvancesFocus(t *testing.T) {
	t.Parallel()

	var b DigitBuffer

	if err := b.Enter('4'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Enter('7'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Focus() != 2 {
		t.Errorf("expected focus 2, got %d", b.Focus())
	}
	if b.Len() != 2 {
		t.Errorf("expected 2 filled slots, got %d", b.Len())
	}
	if b.Code() != "47" {
		t.Errorf("expected code 47, got %s", b.Code())
	}
}

func TestDigitBuffer_NonDigit_Rejected(t *testing.T) {
	t.Parallel()

	var b DigitBuffer

	err := b.Enter('x')
	if !errors.Is(err, ErrInvalidDigit) {
		t.Errorf("expected ErrInvalidDigit, got %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d digits", b.Len())
	}
}

func TestDigitBuffer_EnterWhenFull_Ignored(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste("1234")

	if err := b.Enter('9'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Code() != "1234" {
		t.Errorf("expected code unchanged at 1234, got %s", b.Code())
	}
}

func TestDigitBuffer_BackspaceOnFilledSlot_ClearsIt(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste("12")

	// Focus sits on the empty third slot; backspace steps back and clears.
	b.Backspace()

	if b.Code() != "1" {
		t.Errorf("expected code 1, got %s", b.Code())
	}
	if b.Focus() != 1 {
		t.Errorf("expected focus 1, got %d", b.Focus())
	}
}

func TestDigitBuffer_BackspaceOnEmptyBuffer_NoOp(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Backspace()
	b.Backspace()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d digits", b.Len())
	}
	if b.Focus() != 0 {
		t.Errorf("expected focus 0, got %d", b.Focus())
	}
}

func TestDigitBuffer_BackspaceNeverDeletesPastFirstSlot(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste("1234")

	for i := 0; i < 10; i++ {
		b.Backspace()
	}

	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d digits", b.Len())
	}
	if b.Focus() != 0 {
		t.Errorf("expected focus 0, got %d", b.Focus())
	}
}

func TestDigitBuffer_PasteSkipsNonDigitsAndClips(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste(" 1-2 3456")

	if b.Code() != "1234" {
		t.Errorf("expected code 1234, got %s", b.Code())
	}
	if !b.Complete() {
		t.Error("expected buffer to be complete")
	}
}

func TestDigitBuffer_PasteFromFocusedSlot(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	if err := b.Enter('9'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.Paste("876")

	if b.Code() != "9876" {
		t.Errorf("expected code 9876, got %s", b.Code())
	}
}

func TestDigitBuffer_ThreeDigits_NotComplete(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste("123")

	if b.Complete() {
		t.Error("three digits must not count as complete")
	}
}

func TestDigitBuffer_ClearResetsFocus(t *testing.T) {
	t.Parallel()

	var b DigitBuffer
	b.Paste("1234")
	b.Clear()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d digits", b.Len())
	}
	if b.Focus() != 0 {
		t.Errorf("expected focus 0, got %d", b.Focus())
	}
}
