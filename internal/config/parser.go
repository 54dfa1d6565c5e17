package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile loads a YAML or TOML settings document from disk, validates it
// and returns the result. The format is chosen by file extension.
func ParseFile(path string) (*Settings, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".toml":
	default:
		return nil, proemerrors.NewValidationError("path", fmt.Sprintf("unsupported configuration file extension %q", ext), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, proemerrors.NewParseError(path, 0, err)
	}

	if ext == ".toml" {
		return ParseTOML(path, data)
	}
	return ParseYAML(path, data)
}

// ParseYAML decodes a YAML document over the defaults and validates it.
func ParseYAML(path string, data []byte) (*Settings, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, proemerrors.NewParseError(path, extractLine(err), err)
	}
	if err := ValidateSettings(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseTOML decodes a TOML document over the defaults and validates it.
func ParseTOML(path string, data []byte) (*Settings, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		line := 0
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			line, _ = decodeErr.Position()
		}
		return nil, proemerrors.NewParseError(path, line, err)
	}
	if err := ValidateSettings(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
