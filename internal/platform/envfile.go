package platform

import (
	"fmt"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// ReadEnvFile parses a dotenv file for the launched app's environment.
// Comments, "export " prefixes and quoted values are handled the dotenv way;
// keys keep their case.
func ReadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening env file: %w", err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}
	return env, nil
}

// ParseEnvPairs turns KEY=VALUE flag values into a map, later pairs winning.
func ParseEnvPairs(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid env %q, expected KEY=VALUE", p)
		}
		m[k] = v
	}
	return m, nil
}
