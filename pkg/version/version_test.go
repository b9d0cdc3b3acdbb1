package version

import "testing"

func TestString(t *testing.T) {
	if got := String(); got != "dev (commit unknown, built unknown)" {
		t.Fatalf("unexpected version string %q", got)
	}
	if got := UserAgent(); got != "junior/dev" {
		t.Fatalf("unexpected user agent %q", got)
	}
}
