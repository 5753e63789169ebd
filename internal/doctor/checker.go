// package doctor checks for tools chezmoi leans on
// supplements the output of chezmoi's own doctor subcommand
package doctor

import (
	"os"
	"os/exec"
	"strings"
)

// Tool is an auxiliary program worth checking for
type Tool struct {
	Name    string
	Command string
	Hint    string // what chezmoi uses it for
}

// CheckResult is the outcome of probing one tool
type CheckResult struct {
	Tool      Tool
	Installed bool
	Version   string
}

// DefaultTools returns the programs chezmoi commonly depends on
// the editor entry follows $EDITOR when set
func DefaultTools() []Tool {
	tools := []Tool{
		{Name: "git", Command: "git", Hint: "source repo versioning"},
		{Name: "gpg", Command: "gpg", Hint: "file encryption"},
		{Name: "age", Command: "age", Hint: "file encryption"},
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	// $EDITOR can carry arguments, only the command matters here
	if fields := strings.Fields(editor); len(fields) > 0 {
		tools = append(tools, Tool{Name: "editor", Command: fields[0], Hint: "chezmoi edit"})
	}

	return tools
}

// IsInstalled checks if a command is available on the path
func IsInstalled(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// GetVersion gets the first line of a command's --version output
func GetVersion(command string) (string, error) {
	cmd := exec.Command(command, "--version")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0]), nil
	}
	return "", nil
}

// Check probes a single tool
func Check(tool Tool) CheckResult {
	result := CheckResult{
		Tool:      tool,
		Installed: IsInstalled(tool.Command),
	}

	if result.Installed {
		version, _ := GetVersion(tool.Command)
		result.Version = version
	}

	return result
}

// CheckAll probes every tool
func CheckAll(tools []Tool) []CheckResult {
	results := make([]CheckResult, 0, len(tools))
	for _, tool := range tools {
		results = append(results, Check(tool))
	}
	return results
}
