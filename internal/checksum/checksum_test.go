package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestETag(t *testing.T) {
	if got := ETag("abc"); got != `"abc"` {
		t.Errorf("ETag = %q", got)
	}
}

func TestMatchesNoneMatch(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{`abc`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{`*`, true},
		{`"abcd"`, false},
		{``, false},
	}
	for _, tc := range cases {
		if got := MatchesNoneMatch(tc.header, "abc"); got != tc.want {
			t.Errorf("MatchesNoneMatch(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestSumParts(t *testing.T) {
	if SumParts("ab", "c") == SumParts("a", "bc") {
		t.Error("moving bytes between parts should change the digest")
	}
	if SumParts("x", "y") != SumParts("x", "y") {
		t.Error("SumParts is not deterministic")
	}
	if SumParts("abc") == Sum([]byte("abc")) {
		t.Error("SumParts should terminate parts")
	}
}
