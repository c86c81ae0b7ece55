package muse

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{
			name:  "plain prompt",
			input: "a red dragon on a mountain",
			want:  Command{Kind: CmdGenerate, Prompt: "a red dragon on a mountain"},
		},
		{
			name:  "prompt with surrounding whitespace",
			input: "  a red dragon  ",
			want:  Command{Kind: CmdGenerate, Prompt: "a red dragon"},
		},
		{
			name:  "empty input",
			input: "",
			want:  Command{Kind: CmdGenerate, Prompt: ""},
		},
		{
			name:  "bare memory lists recent",
			input: "memory",
			want:  Command{Kind: CmdListRecent},
		},
		{
			name:  "memory keyword is case-insensitive",
			input: "MEMORY",
			want:  Command{Kind: CmdListRecent},
		},
		{
			name:  "memory with whitespace",
			input: "   memory   ",
			want:  Command{Kind: CmdListRecent},
		},
		{
			name:  "memory id with token",
			input: "memory id abc-123",
			want:  Command{Kind: CmdGetByID, ID: "abc-123"},
		},
		{
			name:  "id keyword is case-insensitive",
			input: "memory ID abc-123",
			want:  Command{Kind: CmdGetByID, ID: "abc-123"},
		},
		{
			name:  "memory id without token falls back to prompt",
			input: "memory id",
			want:  Command{Kind: CmdGenerate, Prompt: "memory id"},
		},
		{
			name:  "memory id with extra tokens falls back to prompt",
			input: "memory id abc 123",
			want:  Command{Kind: CmdGenerate, Prompt: "memory id abc 123"},
		},
		{
			name:  "memory search with one term",
			input: "memory search dragon",
			want:  Command{Kind: CmdSearch, Terms: []string{"dragon"}},
		},
		{
			name:  "memory search with several terms",
			input: "memory search red dragon mountain",
			want:  Command{Kind: CmdSearch, Terms: []string{"red", "dragon", "mountain"}},
		},
		{
			name:  "memory search without terms falls back to prompt",
			input: "memory search",
			want:  Command{Kind: CmdGenerate, Prompt: "memory search"},
		},
		{
			name:  "unknown memory subcommand falls back to prompt",
			input: "memory palace with marble columns",
			want:  Command{Kind: CmdGenerate, Prompt: "memory palace with marble columns"},
		},
		{
			name:  "search term casing is preserved",
			input: "memory search Dragon",
			want:  Command{Kind: CmdSearch, Terms: []string{"Dragon"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseCommand(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}
