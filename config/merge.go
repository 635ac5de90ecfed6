package config

// mergeConfigs merges overlay on top of base. Set fields in the overlay
// win; extension maps merge key-by-key with overlay precedence. Neither
// input is mutated.
func mergeConfigs(base, overlay *Config) *Config {
	merged := &Config{
		Refactor: base.Refactor,
	}

	o := overlay.Refactor
	if o.BeforeContext != nil {
		merged.Refactor.BeforeContext = o.BeforeContext
	}
	if o.AfterContext != nil {
		merged.Refactor.AfterContext = o.AfterContext
	}
	if o.OpenCommand != "" {
		merged.Refactor.OpenCommand = o.OpenCommand
	}
	if o.SaveOnWrite != nil {
		merged.Refactor.SaveOnWrite = o.SaveOnWrite
	}
	if o.MenuTrigger != "" {
		merged.Refactor.MenuTrigger = o.MenuTrigger
	}
	if len(o.Exclude) > 0 {
		merged.Refactor.Exclude = o.Exclude
	}
	if o.LSPTimeoutMs != nil {
		merged.Refactor.LSPTimeoutMs = o.LSPTimeoutMs
	}

	if len(base.Extensions) > 0 || len(overlay.Extensions) > 0 {
		merged.Extensions = make(map[string]interface{}, len(base.Extensions)+len(overlay.Extensions))
		for k, v := range base.Extensions {
			merged.Extensions[k] = v
		}
		for k, v := range overlay.Extensions {
			merged.Extensions[k] = v
		}
	}

	return merged
}
