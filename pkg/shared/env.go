package shared

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var dotenvLoadOnce sync.Once

// LoadDotEnv applies a .env file to the process environment. Variables that
// are already set win. It reports whether any variable was applied.
func LoadDotEnv(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}
		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny, scanner.Err()
}

// loadDotEnvIfPresent walks up from the working directory and loads the
// first .env it finds, once per process.
func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		if path := findDotEnv(); path != "" {
			_, _ = LoadDotEnv(path)
		}
	})
}

func findDotEnv() string {
	current, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(current, ".env")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

func parseDotEnvLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	separator := strings.Index(line, "=")
	if separator <= 0 {
		return "", "", false
	}

	key := strings.TrimSpace(line[:separator])
	if !isValidEnvKey(key) {
		return "", "", false
	}

	value := strings.TrimSpace(line[separator+1:])
	if len(value) >= 2 {
		first := value[0]
		last := value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}
