package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files
// and resolves flags from the mapping stored under the given top-level key.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Values are converted as follows:
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level")
//   - Numbers are passed to Kong as strings
//   - Sequences become string slices
//
// Example config file:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  strict: true
//	  mark:
//	    - top=0
//
// Command-line flags override config file values.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			// Empty or malformed file - return empty config
			return config{}, nil
		}

		values, ok := doc[name]
		if !ok {
			return config{}, nil
		}

		result := make(config, len(values))
		for key, val := range values {
			result[key] = native(val)
		}

		return result, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// native converts a decoded YAML value to the form Kong expects.
// Kong requires numbers as strings for parsing.
func native(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		list := make([]string, len(v))
		for i, elem := range v {
			list[i] = fmt.Sprint(native(elem))
		}

		return list
	default:
		return v
	}
}
