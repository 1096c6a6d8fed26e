package job

import "fmt"

// String renders a short human-readable summary, in the spirit of
// librsync's rs_format_stats.
func (s Stats) String() string {
	return fmt.Sprintf(
		"literal: %d cmds, %d bytes; copy: %d cmds, %d bytes; matches: %d, false matches: %d",
		s.LiteralCmds, s.LiteralBytes, s.CopyCmds, s.CopyBytes, s.Matches, s.FalseMatches,
	)
}
