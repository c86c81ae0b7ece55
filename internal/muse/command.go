package muse

import "strings"

// CommandKind discriminates the parsed form of a raw text input.
type CommandKind int

const (
	// CmdGenerate routes the input to the creation pipeline.
	CmdGenerate CommandKind = iota
	// CmdListRecent lists the most recent creations.
	CmdListRecent
	// CmdGetByID looks up a single creation.
	CmdGetByID
	// CmdSearch filters creations by search terms.
	CmdSearch
)

// Command is the parsed form of a submitted text input. Memory requests
// piggyback on the same input channel as generation requests, so every
// input is parsed exactly once, before any generation side effects begin.
type Command struct {
	Kind   CommandKind
	Prompt string   // CmdGenerate: the full input, trimmed
	ID     string   // CmdGetByID: the requested creation ID
	Terms  []string // CmdSearch: whitespace-separated search terms
}

// ParseCommand recognizes the memory command grammar:
//
//	memory                   -> CmdListRecent
//	memory id <token>        -> CmdGetByID
//	memory search <terms...> -> CmdSearch
//
// Matching is case-insensitive on the keywords and ignores surrounding
// whitespace. Anything else is a generation request. An input matching the
// grammar is always a command, even if the user meant it as literal prompt
// content; sharing one text channel makes that ambiguity unavoidable.
func ParseCommand(input string) Command {
	trimmed := strings.TrimSpace(input)
	fields := strings.Fields(trimmed)

	if len(fields) == 0 || !strings.EqualFold(fields[0], "memory") {
		return Command{Kind: CmdGenerate, Prompt: trimmed}
	}

	if len(fields) == 1 {
		return Command{Kind: CmdListRecent}
	}

	switch strings.ToLower(fields[1]) {
	case "id":
		if len(fields) == 3 {
			return Command{Kind: CmdGetByID, ID: fields[2]}
		}
	case "search":
		if len(fields) > 2 {
			return Command{Kind: CmdSearch, Terms: fields[2:]}
		}
	}

	// Starts with "memory" but doesn't match the grammar: treat as a prompt.
	return Command{Kind: CmdGenerate, Prompt: trimmed}
}
