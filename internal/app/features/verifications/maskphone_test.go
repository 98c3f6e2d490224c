package verifications

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+221770000042", "***********42"},
		{"42", "42"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := maskPhone(tc.in); got != tc.want {
			t.Errorf("maskPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
