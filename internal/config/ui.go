package config

type UIConfig struct {
	PageSize int `toml:"page_size"`
}

func (c UIConfig) WithDefaults() UIConfig {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	return c
}
