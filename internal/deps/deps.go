// Package deps reports availability of the external binaries ripkit
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"ripkit/internal/config"
)

// Requirement defines an external binary ripkit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the requirement set from the configured tool
// names.
func Requirements(tools config.Tools) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: tools.FFmpeg, Description: "conversion and caption extraction"},
		{Name: "FFprobe", Command: tools.FFprobe, Description: "stream probing"},
		{Name: "HandBrakeCLI", Command: tools.HandBrake, Description: "DVD conversion", Optional: true},
		{Name: "mkvextract", Command: tools.MKVExtract, Description: "chapter extraction", Optional: true},
		{Name: "git", Command: tools.Git, Description: "branch workflows", Optional: true},
		{Name: "gh", Command: tools.GitHub, Description: "pull request workflows", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports
// availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional
// requirements.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
