package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestUsername(t *testing.T) {
	cases := map[string]string{
		"Alice Smith":  "alicesmith",
		"张三":           "zhangsan",
		"李 Lee 2":      "lilee2",
		"O'Brien-Kate": "obrienkate",
		"  ":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SuggestUsername(in), in)
	}
}
