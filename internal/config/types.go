package config

// Default stage priorities. Inbound sweeps run stages in ascending priority.
const (
	DefaultResponsePriority = 100
	DefaultRequestPriority  = 200
	DefaultRoutePriority    = 300
	DefaultDispatchPriority = 400

	DefaultPrefix        = "proem"
	DefaultRequestURL    = "http://localhost/"
	DefaultRequestMethod = "GET"
)

// Settings represents a bootstrap configuration document.
type Settings struct {
	Prefix      string  `yaml:"prefix" toml:"prefix" validate:"required,event_prefix"`
	Environment string  `yaml:"environment,omitempty" toml:"environment" validate:"omitempty,max=64"`
	Logging     Logging `yaml:"logging,omitempty" toml:"logging"`
	Stages      Stages  `yaml:"stages,omitempty" toml:"stages"`
	Request     Request `yaml:"request,omitempty" toml:"request"`
	Trace       bool    `yaml:"trace,omitempty" toml:"trace"`
	Metrics     bool    `yaml:"metrics,omitempty" toml:"metrics"`
}

// Logging controls the engine logger.
type Logging struct {
	Level  string `yaml:"level,omitempty" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" toml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// Stages holds the attachment priority of each default stage.
type Stages struct {
	Response int `yaml:"response" toml:"response"`
	Request  int `yaml:"request" toml:"request"`
	Route    int `yaml:"route" toml:"route"`
	Dispatch int `yaml:"dispatch" toml:"dispatch"`
}

// Request describes the request built when no listener supplies one.
type Request struct {
	URL    string `yaml:"url,omitempty" toml:"url" validate:"omitempty,url"`
	Method string `yaml:"method,omitempty" toml:"method" validate:"omitempty,alpha,max=16"`
	Body   string `yaml:"body,omitempty" toml:"body"`

	// ContentType accepts the shorthand "json".
	ContentType string `yaml:"content_type,omitempty" toml:"content_type"`
}

// Default returns the settings used when no document is supplied. Parsed
// documents are decoded on top of these values.
func Default() *Settings {
	return &Settings{
		Prefix: DefaultPrefix,
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Stages: Stages{
			Response: DefaultResponsePriority,
			Request:  DefaultRequestPriority,
			Route:    DefaultRoutePriority,
			Dispatch: DefaultDispatchPriority,
		},
		Request: Request{
			URL:    DefaultRequestURL,
			Method: DefaultRequestMethod,
		},
	}
}
