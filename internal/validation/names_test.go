package validation

import (
	"strings"
	"testing"
)

func TestValidUsername(t *testing.T) {
	valids := []string{
		"a",
		"admin",
		"alice.smith",
		"<script>alert(1)</script>",
		"ñandú",
		strings.Repeat("x", MaxUsernameLen),
	}
	for _, v := range valids {
		if !ValidUsername(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}

	invalids := []string{
		"",
		"bad space",
		"tab\tname",
		"nul\x00",
		string([]byte{0xff, 0xfe}),
		strings.Repeat("x", MaxUsernameLen+1),
	}
	for _, v := range invalids {
		if ValidUsername(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidPermission(t *testing.T) {
	for _, v := range []string{"a", "user:read", "user:write", "user:admin", "a_b-c.d:x2"} {
		if !ValidPermission(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
	for _, v := range []string{"", ":lead", "trail:", "UPPER", "semi;colon", "bad space", strings.Repeat("a", 65)} {
		if ValidPermission(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}
