// Copyright © 2025 The Lambdust authors

package token

import "testing"

func TestTypeStrings(t *testing.T) {
	for typ := INVALID; typ < numTokenTypes; typ++ {
		if typ.String() == "" {
			t.Errorf("token type %d has no string", typ)
		}
	}
	if numTokenTypes.String() != "invalid" {
		t.Errorf("out of range token type string: %v", numTokenTypes.String())
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc    Location
		expect string
	}{
		{Location{File: "stdin", Pos: -1}, "stdin"},
		{Location{File: "lib.scm", Pos: 10}, "lib.scm[10]"},
		{Location{File: "lib.scm", Pos: 10, Line: 2}, "lib.scm:2"},
		{Location{File: "lib.scm", Pos: 10, Line: 2, Col: 4}, "lib.scm:2:4"},
	}
	for _, test := range tests {
		if s := test.loc.String(); s != test.expect {
			t.Errorf("expected %q (got %q)", test.expect, s)
		}
	}
}
