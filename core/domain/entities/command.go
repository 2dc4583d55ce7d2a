package entities

import "strings"

// Command is an external program invocation built by a platform driver
type Command struct {
	Name     string
	Args     []string
	Elevated bool // requires administrator rights
}

// String renders the command the way a user would type it in a shell
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			arg = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
