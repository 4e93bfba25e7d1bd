package phone

import "testing"

func TestValid_AcceptsSeparatedInternationalNumber(t *testing.T) {
	if !Valid("+1 555-123-4567") {
		t.Fatalf("expected +1 555-123-4567 to be valid")
	}
}

func TestValid_AcceptsBareDigits(t *testing.T) {
	if !Valid("5551234567") {
		t.Fatalf("expected 5551234567 to be valid")
	}
}

func TestValid_AcceptsParenthesizedNumber(t *testing.T) {
	if !Valid("(020) 123 4567") {
		t.Fatalf("expected (020) 123 4567 to be valid")
	}
}

func TestValid_RejectsTooShort(t *testing.T) {
	if Valid("123") {
		t.Fatalf("expected 123 to be rejected: too short")
	}
}

func TestValid_RejectsTooLong(t *testing.T) {
	if Valid("1234567890123456") {
		t.Fatalf("expected 16 digits to be rejected: over E.164 maximum")
	}
}

func TestValid_RejectsLetters(t *testing.T) {
	if Valid("12345abc") {
		t.Fatalf("expected 12345abc to be rejected")
	}
}

func TestValid_RejectsInteriorPlus(t *testing.T) {
	if Valid("555+1234567") {
		t.Fatalf("expected interior + to be rejected")
	}
}

func TestNormalizeE164_PassesThroughUnparseableInput(t *testing.T) {
	if got := NormalizeE164("5551234567"); got != "5551234567" {
		t.Fatalf("expected passthrough for unparseable number, got %q", got)
	}
}

func TestNormalizeE164_FormatsValidNumber(t *testing.T) {
	if got := NormalizeE164("+31 6 12345678"); got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
}

func TestNormalizeE164_TrimsEmptyInput(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
