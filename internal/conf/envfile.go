package conf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileVar names an extra env file probed before the fixed candidates
const EnvFileVar = "MAIL_SERVER_ENV_FILE"

// CandidateEnvFiles returns the env files to probe, highest priority first
func CandidateEnvFiles(env map[string]string, cwd, exeDir string) []string {
	var files []string
	if p := env[EnvFileVar]; p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		files = append(files, p)
	}
	files = append(files,
		filepath.Join(cwd, ".env.mail"),
		filepath.Join(cwd, ".env"),
	)
	if exeDir != "" {
		files = append(files, filepath.Join(exeDir, ".env"))
	}
	return files
}

// EnvFiles returns the candidate env files for the current process
func EnvFiles(opts LoadOptions) []string {
	env := environMap()
	if opts.EnvFile != "" {
		env[EnvFileVar] = opts.EnvFile
	}
	cwd, _ := os.Getwd()
	exeDir := ""
	if execPath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(execPath)
	}
	return CandidateEnvFiles(env, cwd, exeDir)
}

// HydrateEnv returns a copy of base filled in from the given env files.
// Keys already present (in base or an earlier file) are never replaced.
// Missing files and malformed lines are skipped.
func HydrateEnv(base map[string]string, files ...string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, value, ok := parseEnvLine(scanner.Text())
			if !ok {
				continue
			}
			if _, exists := out[key]; exists {
				continue
			}
			out[key] = value
		}
		f.Close()
	}
	return out
}

// parseEnvLine splits one KEY=VALUE line on the first '='. Key and value
// are trimmed and one layer of matching surrounding quotes is removed from
// the value. Nothing else is interpreted.
func parseEnvLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	rawKey, rawValue, found := strings.Cut(trimmed, "=")
	if !found {
		return "", "", false
	}
	key := strings.TrimSpace(rawKey)
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(rawValue)), true
}

func unquote(value string) string {
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(value, q) && strings.HasSuffix(value, q) {
			if len(value) < 2 {
				return ""
			}
			return value[1 : len(value)-1]
		}
	}
	return value
}

// DialectWarnings reports lines of the given env files that a dotenv
// loader would reject or read differently. Missing files are skipped.
func DialectWarnings(files ...string) []string {
	var warnings []string
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for n := 1; scanner.Scan(); n++ {
			key, value, ok := parseEnvLine(scanner.Text())
			if !ok {
				continue
			}
			parsed, err := godotenv.Unmarshal(strings.TrimSpace(scanner.Text()))
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s:%d: %s is not valid dotenv syntax", file, n, key))
				continue
			}
			if dotenv, found := parsed[key]; !found || dotenv != value {
				warnings = append(warnings, fmt.Sprintf("%s:%d: %s reads as %q here but %q under dotenv", file, n, key, value, dotenv))
			}
		}
		f.Close()
	}
	return warnings
}

// environMap snapshots os.Environ into a map
func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
