// Package cli holds the flag handling shared by the report subcommands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Parse parses args into fs. Clustered single-letter boolean flags such as
// "-alr" are accepted the way getopt accepts them. flag.ErrHelp is returned
// unwrapped so the caller can print usage and succeed.
func Parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(SplitClustered(fs, args)); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return nil
}

// SplitClustered rewrites "-alr" as "-a -l -r" when every letter names a
// boolean flag of fs. Scanning stops at "--" or at the first non-flag argument.
func SplitClustered(fs *flag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || !strings.HasPrefix(arg, "-") || arg == "-" {
			return append(out, args[i:]...)
		}

		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			out = append(out, arg)
			continue
		}
		if f := fs.Lookup(name); f != nil {
			out = append(out, arg)
			if !isBool(f) && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		}
		if letters, ok := cluster(fs, arg); ok {
			out = append(out, letters...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

func cluster(fs *flag.FlagSet, arg string) ([]string, bool) {
	if strings.HasPrefix(arg, "--") || len(arg) < 3 {
		return nil, false
	}
	letters := make([]string, 0, len(arg)-1)
	for _, r := range arg[1:] {
		f := fs.Lookup(string(r))
		if f == nil || !isBool(f) {
			return nil, false
		}
		letters = append(letters, "-"+string(r))
	}
	return letters, true
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
