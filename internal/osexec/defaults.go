package osexec

import "regexp"

func mustPatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// DefaultEntries returns the read-only command set safe enough to run
// against a transcribed voice command without further confirmation.
func DefaultEntries() map[string]Entry {
	return map[string]Entry{
		"ls": {
			Description:        "List directory contents",
			MaxArgs:            20,
			AllowedArgPatterns: mustPatterns(`^-[alhtrs]+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"cat": {
			Description:        "Read file contents",
			MaxArgs:            10,
			AllowedArgPatterns: mustPatterns(`^[a-zA-Z0-9\./_-]+$`),
		},
		"grep": {
			Description:        "Search text patterns",
			MaxArgs:            20,
			AllowedArgPatterns: mustPatterns(`^-[irnvEFP]+$`, `^[a-zA-Z0-9\./_\-\s]+$`),
		},
		"stat": {
			Description:        "File information",
			MaxArgs:            5,
			AllowedArgPatterns: mustPatterns(`^-[c]+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"pwd": {
			Description: "Print working directory",
			MaxArgs:     0,
		},
		"find": {
			Description:        "Find files",
			MaxArgs:            30,
			AllowedArgPatterns: mustPatterns(`^-(name|type|size|mtime)$`, `^[a-zA-Z0-9\./_\-]+$`),
		},
		"head": {
			Description:        "Show file beginning",
			MaxArgs:            5,
			AllowedArgPatterns: mustPatterns(`^-n\d+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"tail": {
			Description:        "Show file end",
			MaxArgs:            5,
			AllowedArgPatterns: mustPatterns(`^-n\d+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"wc": {
			Description:        "Count words/lines",
			MaxArgs:            10,
			AllowedArgPatterns: mustPatterns(`^-[lwc]+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"du": {
			Description:        "Disk usage",
			MaxArgs:            10,
			AllowedArgPatterns: mustPatterns(`^-[shc]+$`, `^[a-zA-Z0-9\./_-]+$`),
		},
		"echo": {
			Description: "Echo text",
			MaxArgs:     50,
		},
		"date": {
			Description:        "Show date/time",
			MaxArgs:            5,
			AllowedArgPatterns: mustPatterns(`^[\+%a-zA-Z0-9\-:/ ]+$`),
		},
	}
}
