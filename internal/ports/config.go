package ports

import (
	"context"

	"github.com/alexisbeaulieu97/proem/internal/config"
)

// ConfigLoader loads bootstrap settings from an external source. Error
// mapping expectations:
//   - missing file → errors.ParseError wrapping fs.ErrNotExist
//   - YAML/TOML syntax failures → errors.ParseError with a line when known
//   - schema failures → errors.ValidationError naming the field
//   - unsupported extension → errors.ValidationError on field "path"
type ConfigLoader interface {
	Load(ctx context.Context, path string) (*config.Settings, error)
}
