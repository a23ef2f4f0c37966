package main

import (
	"fmt"
	"strings"
)

type versionCmd struct{ *root }

// name is the binary name without the subcommand suffix.
func (v *versionCmd) name() string {
	if fields := strings.Fields(v.program); len(fields) > 0 {
		return fields[0]
	}
	return "shinemark"
}

func (v *versionCmd) Run() error {
	fmt.Fprintf(stdout, "%s version %s", v.name(), version)
	if commit != "" {
		fmt.Fprintf(stdout, " (%s", commit)
		if date != "" {
			fmt.Fprintf(stdout, ", %s", date)
		}
		fmt.Fprint(stdout, ")")
	}
	fmt.Fprintln(stdout)
	return nil
}
