// Package flagx helps components that share one command line parse only the
// flags they own. Filtering the argument list first keeps a flag.FlagSet
// from choking on flags registered elsewhere.
package flagx

import (
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags, together with their
// values. Both the "-f value" and "-f=value" forms are recognized; anything
// else, including unknown flags and their values, is dropped.
//
// The returned slice is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-f=value" form: the flag name is everything before the '='.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-f value" form: a following argument that does not look like a
		// flag is taken as the value.
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}
