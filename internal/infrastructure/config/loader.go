package config

import (
	"context"
	"sort"

	cfgpkg "github.com/alexisbeaulieu97/proem/internal/config"
	"github.com/alexisbeaulieu97/proem/internal/ports"
)

// FileLoader implements the ConfigLoader port by reading YAML or TOML files from disk.
type FileLoader struct {
	logger ports.Logger
}

func NewFileLoader(logger ports.Logger) *FileLoader {
	return &FileLoader{logger: logger}
}

// Load parses the document at path. An empty path yields the defaults.
func (l *FileLoader) Load(ctx context.Context, path string) (*cfgpkg.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path == "" {
		l.logDebug(ctx, "no configuration file supplied, using defaults", nil)
		return cfgpkg.Default(), nil
	}

	l.logDebug(ctx, "loading bootstrap configuration", map[string]interface{}{"path": path})

	cfg, err := cfgpkg.ParseFile(path)
	if err != nil {
		l.logError(ctx, "failed to load configuration", err, map[string]interface{}{"path": path})
		return nil, err
	}

	l.logInfo(ctx, "bootstrap configuration loaded", map[string]interface{}{
		"path":        path,
		"prefix":      cfg.Prefix,
		"environment": cfg.Environment,
	})
	return cfg, nil
}

var _ ports.ConfigLoader = (*FileLoader)(nil)

func (l *FileLoader) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(ctx, msg, flattenFields(fields)...)
}

func (l *FileLoader) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Info(ctx, msg, flattenFields(fields)...)
}

func (l *FileLoader) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["error"] = err
	l.logger.Error(ctx, msg, flattenFields(payload)...)
}

func flattenFields(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
