package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripThink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hi there! I'm here.", "Hi there! I'm here."},
		{"block", "<think>\nreasoning\nmore\n</think>\n\nHello friend.", "Hello friend."},
		{"block mixed case", "<THINK>x</Think>Hey.", "Hey."},
		{"dangling to blank line", "think> the user is sad\nstill thinking\n\nYou matter.", "You matter."},
		{"unclosed open tag", "<think>pondering forever", "<"},
		{"joins lines", "Line one.\n\n  Line two.  \n", "Line one. Line two."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripThink(tt.in))
		})
	}
}

func TestTruncateReply(t *testing.T) {
	short := "  You are not alone.  "
	assert.Equal(t, "You are not alone.", TruncateReply(short, 280))

	// a full stop past the halfway mark ends the reply there
	long := strings.Repeat("a", 200) + ". " + strings.Repeat("b", 200)
	assert.Equal(t, strings.Repeat("a", 200)+".", TruncateReply(long, 280))

	// a full stop before the halfway mark is ignored
	early := "Hi. " + strings.Repeat("c", 400)
	got := TruncateReply(early, 280)
	assert.Len(t, []rune(got), 280)
	assert.True(t, strings.HasPrefix(got, "Hi. "))

	// counts characters, not bytes
	hearts := strings.Repeat("💖", 300)
	assert.Len(t, []rune(TruncateReply(hearts, 280)), 280)

	assert.Equal(t, "abc", TruncateReply(" abc ", 0))
}
