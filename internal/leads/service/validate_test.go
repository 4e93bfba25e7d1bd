package service

import "testing"

func TestValidEmail_AcceptsMinimalAddress(t *testing.T) {
	if !validEmail("a@b.co") {
		t.Fatalf("expected a@b.co to be valid")
	}
}

func TestValidEmail_AcceptsSubdomainsAndTags(t *testing.T) {
	for _, candidate := range []string{"jane@x.com", "jane.doe+crm@mail.example.org", "J_Doe%x@sub.domain.io"} {
		if !validEmail(candidate) {
			t.Fatalf("expected %q to be valid", candidate)
		}
	}
}

func TestValidEmail_RejectsMissingTLD(t *testing.T) {
	if validEmail("a@b") {
		t.Fatalf("expected a@b to be rejected: no dotted top-level segment")
	}
}

func TestValidEmail_RejectsEmptyLocalPart(t *testing.T) {
	if validEmail("@b.co") {
		t.Fatalf("expected @b.co to be rejected")
	}
}

func TestValidEmail_RejectsMissingAt(t *testing.T) {
	if validEmail("a.b.co") {
		t.Fatalf("expected a.b.co to be rejected")
	}
}

func TestValidEmail_RejectsWhitespace(t *testing.T) {
	if validEmail("a b@c.co") {
		t.Fatalf("expected embedded whitespace to be rejected")
	}
}

func TestValidEmail_RejectsNumericTLD(t *testing.T) {
	if validEmail("a@b.123") {
		t.Fatalf("expected numeric top-level segment to be rejected")
	}
}
