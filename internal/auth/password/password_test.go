package password

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding prefix: %s", encoded)
	}
	if !Verify("correct horse battery staple", encoded) {
		t.Fatal("expected matching password to verify")
	}
	if Verify("wrong password", encoded) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashSaltsAreUnique(t *testing.T) {
	a, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ by salt")
	}
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=abc,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!notb64$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!notb64",
	} {
		if Verify("anything", encoded) {
			t.Errorf("expected malformed encoding to fail verification: %q", encoded)
		}
	}
}
