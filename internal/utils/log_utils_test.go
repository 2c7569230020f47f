package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unispace/unispace/internal/utils"
)

func TestSanitizeLogString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Plain", "조용한 방 찾아줘", "조용한 방 찾아줘"},
		{"Newlines", "line1\nline2", "line1 line2"},
		{"CRLF", "line1\r\nline2", "line1 line2"},
		{"Tabs", "a\tb", "a b"},
		{"FormatSpecifier", "100%", "100%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.SanitizeLogString(tt.input))
		})
	}
}

func TestSanitizeLogStringTruncates(t *testing.T) {
	long := strings.Repeat("a", utils.MaxLogStringLength+50)
	got := utils.SanitizeLogString(long)
	assert.True(t, strings.HasSuffix(got, "... (truncated)"))
	assert.LessOrEqual(t, len(got), utils.MaxLogStringLength+len("... (truncated)"))
}
