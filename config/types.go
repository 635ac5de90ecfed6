package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Defaults for the refactor namespace.
const (
	DefaultBeforeContext = 3
	DefaultAfterContext  = 3
	DefaultOpenCommand   = "tab split"
	DefaultSaveOnWrite   = true
	DefaultMenuTrigger   = "<leader>rr"
	DefaultLSPTimeoutMs  = 2000
)

// RefactorConfig is the `refactor` namespace of refactor.yml.
type RefactorConfig struct {
	// BeforeContext is the number of context lines shown above each edit.
	BeforeContext *int `yaml:"before_context,omitempty" toml:"before_context,omitempty" json:"before_context,omitempty" jsonschema:"description=Lines of context shown above each edit,minimum=0"`

	// AfterContext is the number of context lines shown below each edit.
	AfterContext *int `yaml:"after_context,omitempty" toml:"after_context,omitempty" json:"after_context,omitempty" jsonschema:"description=Lines of context shown below each edit,minimum=0"`

	// OpenCommand is the Ex command used to open the review window.
	OpenCommand string `yaml:"open_command,omitempty" toml:"open_command,omitempty" json:"open_command,omitempty" jsonschema:"description=Ex command used to open the review window"`

	// SaveOnWrite applies reviewed edits to the source files when the
	// scratch buffer is written.
	SaveOnWrite *bool `yaml:"save_on_write,omitempty" toml:"save_on_write,omitempty" json:"save_on_write,omitempty" jsonschema:"description=Apply edits to source files when the review buffer is written"`

	// MenuTrigger is the mapping that opens the refactor menu.
	MenuTrigger string `yaml:"menu_trigger,omitempty" toml:"menu_trigger,omitempty" json:"menu_trigger,omitempty" jsonschema:"description=Key mapping that opens the refactor menu"`

	// Exclude lists .gitignore-style patterns skipped by the search provider.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Patterns excluded from search-based edit sets"`

	// LSPTimeoutMs bounds the language-server rename request.
	LSPTimeoutMs *int `yaml:"lsp_timeout_ms,omitempty" toml:"lsp_timeout_ms,omitempty" json:"lsp_timeout_ms,omitempty" jsonschema:"description=Timeout in milliseconds for language server requests,minimum=1"`
}

// Config is the root of a refactor.yml / refactor.toml document. Unknown
// top-level keys are captured in Extensions so other tools can share the
// file (the logging section lives there).
type Config struct {
	Refactor RefactorConfig `yaml:"refactor" toml:"refactor" json:"refactor,omitempty"`

	Extensions map[string]interface{} `yaml:"-" toml:"-" json:"-"`
}

// UnmarshalYAML decodes the known sections and stashes everything else
// in Extensions.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	var all map[string]interface{}
	if err := node.Decode(&all); err != nil {
		return err
	}
	delete(all, "refactor")

	*c = Config(p)
	if len(all) > 0 {
		c.Extensions = all
	}
	return nil
}

// UnmarshalExtension decodes a named extension section of the loaded
// config into the provided target struct. The target must be a pointer.
// A missing key is not an error; the target simply stays zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	// Decode the generic map into the strongly-typed target, matching on
	// `yaml` tags for consistency with the file format.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// SetDefaults fills unset fields with their defaults so the config is
// always complete, never partial.
func (c *Config) SetDefaults() {
	r := &c.Refactor
	if r.BeforeContext == nil {
		r.BeforeContext = intPtr(DefaultBeforeContext)
	}
	if r.AfterContext == nil {
		r.AfterContext = intPtr(DefaultAfterContext)
	}
	if r.OpenCommand == "" {
		r.OpenCommand = DefaultOpenCommand
	}
	if r.SaveOnWrite == nil {
		r.SaveOnWrite = boolPtr(DefaultSaveOnWrite)
	}
	if r.MenuTrigger == "" {
		r.MenuTrigger = DefaultMenuTrigger
	}
	if r.LSPTimeoutMs == nil {
		r.LSPTimeoutMs = intPtr(DefaultLSPTimeoutMs)
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	r := c.Refactor
	if r.BeforeContext != nil && *r.BeforeContext < 0 {
		return fmt.Errorf("refactor.before_context must not be negative")
	}
	if r.AfterContext != nil && *r.AfterContext < 0 {
		return fmt.Errorf("refactor.after_context must not be negative")
	}
	if r.LSPTimeoutMs != nil && *r.LSPTimeoutMs <= 0 {
		return fmt.Errorf("refactor.lsp_timeout_ms must be positive")
	}
	return nil
}

// Default returns a complete configuration carrying only defaults.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Before returns the resolved before-context line count.
func (r RefactorConfig) Before() int {
	if r.BeforeContext != nil {
		return *r.BeforeContext
	}
	return DefaultBeforeContext
}

// After returns the resolved after-context line count.
func (r RefactorConfig) After() int {
	if r.AfterContext != nil {
		return *r.AfterContext
	}
	return DefaultAfterContext
}

// Save returns the resolved save-on-write flag.
func (r RefactorConfig) Save() bool {
	if r.SaveOnWrite != nil {
		return *r.SaveOnWrite
	}
	return DefaultSaveOnWrite
}

// Timeout returns the resolved language-server timeout in milliseconds.
func (r RefactorConfig) Timeout() int {
	if r.LSPTimeoutMs != nil {
		return *r.LSPTimeoutMs
	}
	return DefaultLSPTimeoutMs
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
