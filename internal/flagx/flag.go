// Package flagx lets several components parse their own flags out of one
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// canonical strips one or two leading dashes so "-c" and "--c" compare equal.
func canonical(name string) string {
	return strings.TrimPrefix(strings.TrimPrefix(name, "-"), "-")
}

// FilterArgs keeps only the allowed flags and their values from args.
//
// A flag may be written "-name value", "--name value", "-name=value" or
// "--name=value". A following argument is treated as the value unless it
// starts with "-". Order is preserved.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[canonical(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, ok := allowed[canonical(name)]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[canonical(arg)]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath returns the value of -c/-config in args, or "" if absent.
// When both are given the last one wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
