package randx

import (
	"strings"
	"testing"
)

func TestBase62(t *testing.T) {
	s, err := Base62(12)
	if err != nil {
		t.Fatalf("Base62 failed: %v", err)
	}
	if len(s) != 12 {
		t.Fatalf("Expected length 12, got %d", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(Base62Chars, r) {
			t.Errorf("Unexpected character %q", r)
		}
	}
}

func TestDisplayName(t *testing.T) {
	name, err := DisplayName()
	if err != nil {
		t.Fatalf("DisplayName failed: %v", err)
	}
	if !strings.HasPrefix(name, "User_") || len(name) != len("User_")+DisplayNameRandomLength {
		t.Errorf("Unexpected display name %q", name)
	}
}

func TestMediaKeyRoundTrip(t *testing.T) {
	key := MediaKey(".PNG")

	if !strings.HasSuffix(key, ".png") {
		t.Errorf("Expected lower-cased extension, got %q", key)
	}
	if !IsValidMediaKey(key) {
		t.Errorf("Expected %q to be a valid media key", key)
	}
}

func TestIsValidMediaKeyRejects(t *testing.T) {
	cases := []string{
		"",
		"media/",
		"media/not-a-uuid.png",
		"avatars/0b0f3d4e-8d0c-4a57-9a4f-6f4f3f0f7b11.png",
		"media/0b0f3d4e-8d0c-4a57-9a4f-6f4f3f0f7b11",
		"media/0b0f3d4e-8d0c-4a57-9a4f-6f4f3f0f7b11.png/../x",
	}

	for _, key := range cases {
		if IsValidMediaKey(key) {
			t.Errorf("Expected %q to be rejected", key)
		}
	}
}
