package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build information for the tyfold CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var componentAttrs = [...][]color.Attribute{
	{color.FgYellow, color.Bold},
	{color.FgGreen, color.Bold},
	{color.FgBlue, color.Bold},
}

// Colored paints the major, minor and patch numbers of v in their own colors.
// A pre-release suffix is left plain, as is anything that does not look like
// a dotted version.
func Colored(v string, enabled bool) string {
	if !enabled {
		return v
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != len(componentAttrs) {
		return v
	}
	for i, p := range parts {
		c := color.New(componentAttrs[i]...)
		c.EnableColor()
		parts[i] = c.Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
