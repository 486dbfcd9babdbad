// Package credentials discovers a hosting token for remote operations.
//
// Discovery is silent by design: local-only projects have no token and every
// operation must keep working without one. Each probe's outcome is recorded
// so diagnostics can show where discovery looked, without changing the
// fallthrough behavior.
package credentials

import (
	"os"
	"path/filepath"
	"strings"
)

// Source identifies where a token was (or was not) found.
type Source string

const (
	// SourceExplicit is a token passed directly by the caller.
	SourceExplicit Source = "explicit"
	// SourceEnv is the GITHUB_TOKEN / GH_TOKEN environment variables.
	SourceEnv Source = "environment"
	// SourceUserFile is the per-user token file under the config dotdir.
	SourceUserFile Source = "user file"
	// SourceProjectEnv is a GITHUB_TOKEN= line in the project's .env file.
	SourceProjectEnv Source = "project .env"
)

// Probe records one discovery attempt.
type Probe struct {
	Source Source
	Detail string
	Found  bool
}

// Result is the outcome of token discovery.
type Result struct {
	Token  string
	Source Source
	Probes []Probe
}

// Found reports whether any source produced a token.
func (r Result) Found() bool {
	return r.Token != ""
}

// userTokenPath returns the per-user token file location.
func userTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "quill", "token"), nil
}

// Discover looks for a token in priority order: the explicit argument, the
// GITHUB_TOKEN / GH_TOKEN environment variables, the per-user token file,
// then a GITHUB_TOKEN= line in the project's .env. Every failure is silent;
// the probes record what was attempted.
func Discover(explicit, projectPath string) Result {
	result := Result{}

	if tryExplicit(&result, explicit) {
		return result
	}

	if tryEnv(&result) {
		return result
	}

	if tryUserFile(&result) {
		return result
	}

	tryProjectEnv(&result, projectPath)

	return result
}

func tryExplicit(result *Result, explicit string) bool {
	found := explicit != ""

	result.Probes = append(result.Probes, Probe{Source: SourceExplicit, Found: found})
	if found {
		result.Token = explicit
		result.Source = SourceExplicit
	}

	return found
}

func tryEnv(result *Result) bool {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		value := strings.TrimSpace(os.Getenv(name))

		result.Probes = append(result.Probes, Probe{
			Source: SourceEnv,
			Detail: name,
			Found:  value != "",
		})

		if value != "" {
			result.Token = value
			result.Source = SourceEnv

			return true
		}
	}

	return false
}

func tryUserFile(result *Result) bool {
	path, err := userTokenPath()
	if err != nil {
		result.Probes = append(result.Probes, Probe{Source: SourceUserFile, Detail: err.Error()})

		return false
	}

	data, err := os.ReadFile(path)
	token := strings.TrimSpace(string(data))
	found := err == nil && token != ""

	result.Probes = append(result.Probes, Probe{Source: SourceUserFile, Detail: path, Found: found})

	if found {
		result.Token = token
		result.Source = SourceUserFile
	}

	return found
}

func tryProjectEnv(result *Result, projectPath string) {
	path := filepath.Join(projectPath, ".env")

	data, err := os.ReadFile(path)
	if err != nil {
		result.Probes = append(result.Probes, Probe{Source: SourceProjectEnv, Detail: path})

		return
	}

	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)

		value, ok := strings.CutPrefix(line, "GITHUB_TOKEN=")
		if !ok {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if value == "" {
			continue
		}

		result.Probes = append(result.Probes, Probe{Source: SourceProjectEnv, Detail: path, Found: true})
		result.Token = value
		result.Source = SourceProjectEnv

		return
	}

	result.Probes = append(result.Probes, Probe{Source: SourceProjectEnv, Detail: path})
}

// Store writes a token to the per-user token file with restricted
// permissions, creating the config directory when needed.
func Store(token string) (string, error) {
	path, err := userTokenPath()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return "", err
	}

	err = os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
	if err != nil {
		return "", err
	}

	return path, nil
}
