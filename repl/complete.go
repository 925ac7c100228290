// Copyright © 2025 The Lambdust authors

package repl

import (
	"sort"
	"strings"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// symbolCompleter implements readline.AutoCompleter by enumerating symbols
// bound in the current lambdust environment.
type symbolCompleter struct {
	env *scheme.Env
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		suffix := sym[len(prefix):]
		result = append(result, []rune(suffix))
	}
	return result, len(prefix)
}

// collectSymbols walks the environment chain outward so a shadowed binding
// appears once.
func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string

	for env := c.env; env != nil; env = env.Parent() {
		for _, name := range env.Names() {
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}

	sort.Strings(result)
	return result
}
