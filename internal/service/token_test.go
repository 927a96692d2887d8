package service

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const urlSafeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestIssueTokenProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("issued tokens are pairwise distinct", prop.ForAll(
		func(n int) bool {
			seen := make(map[string]struct{}, n)
			for i := 0; i < n; i++ {
				token, err := IssueToken()
				if err != nil {
					return false
				}
				if _, dup := seen[token]; dup {
					return false
				}
				seen[token] = struct{}{}
			}
			return true
		},
		gen.IntRange(2, 200),
	))

	properties.Property("tokens are url-safe without further encoding", prop.ForAll(
		func(_ int) bool {
			token, err := IssueToken()
			if err != nil {
				return false
			}
			if len(token) != 43 {
				return false
			}
			for _, r := range token {
				if !strings.ContainsRune(urlSafeAlphabet, r) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}
