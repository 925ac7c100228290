// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/schemetest"
)

func TestGensymBuiltin(t *testing.T) {
	tests := schemetest.TestSuite{
		{"gensym counts up per runtime", schemetest.TestSequence{
			{"(gensym)", "gen00000001", ""},
			{"(gensym)", "gen00000002", ""},
			{"(eq? (gensym) (gensym))", "#f", ""},
			{"(symbol? (gensym))", "#t", ""},
		}},
		{"generated symbols can be bound", schemetest.TestSequence{
			{"(define g (gensym))", "#<unspecified>", ""},
			{"(eq? g g)", "#t", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestVersionBuiltin(t *testing.T) {
	tests := schemetest.TestSuite{
		{"version", schemetest.TestSequence{
			{"(version)", `"0.2.0"`, ""},
			{"(string? (version))", "#t", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
