package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Crypto & DeFi: A Guide!", "crypto-defi-a-guide"},
		{"Hello World", "hello-world"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Café au lait", "caf-au-lait"},
		{"2024 Market Outlook", "2024-market-outlook"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		got := FromTitle(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		if got != "" {
			assert.True(t, Valid(got), got)
		}
	}
}

func TestFromName(t *testing.T) {
	assert.Equal(t, "market-analysis", FromName("Market Analysis"))
	assert.Equal(t, "web-3", FromName("Web 3"))
	assert.Equal(t, "defi101", FromName("DeFi/101"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("abc-123"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("Abc"))
	assert.False(t, Valid("a b"))
	assert.False(t, Valid("a_b"))
}
