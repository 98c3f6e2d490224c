package verify_test

import (
	"testing"

	"github.com/mbayedione/giehub/internal/app/system/verify"
)

func TestNewCode_SixDigits(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := verify.NewCode()
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 characters", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains a non-digit", code)
			}
		}
		seen[code] = true
	}
	// 200 draws from a million-value space colliding down to a handful
	// would mean the generator is broken.
	if len(seen) < 150 {
		t.Errorf("only %d distinct codes out of 200 draws", len(seen))
	}
}
