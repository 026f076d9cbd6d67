package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code fence",
			input:    "```json\n[{\"key\": \"0_0\"}]\n```",
			expected: `[{"key": "0_0"}]`,
		},
		{
			name:     "generic code fence",
			input:    "```\n[1, 2]\n```",
			expected: "[1, 2]",
		},
		{
			name:     "no fence",
			input:    `[{"ok": true}]`,
			expected: `[{"ok": true}]`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n[1]\n  ",
			expected: "[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[{"key":"0_0","ok":true}]`,
		ExtractJSONArray(`다음은 점검 결과입니다: [{"key":"0_0","ok":true}] 이상입니다.`))

	assert.Equal(t, "[1,2,3]", ExtractJSONArray("[1,2,3]"))

	assert.Empty(t, ExtractJSONArray("no array here"))
	assert.Empty(t, ExtractJSONArray("only open ["))
	assert.Empty(t, ExtractJSONArray("] backwards ["))
}
