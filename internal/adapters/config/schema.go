package config

// Rebundlerfile represents the structure of the .rebundler.yaml configuration file.
type Rebundlerfile struct {
	Version     string   `yaml:"version"`
	Root        string   `yaml:"root"`
	Persist     bool     `yaml:"persist"`
	PersistKey  string   `yaml:"persistKey"`
	CacheDir    string   `yaml:"cacheDir"`
	Noop        bool     `yaml:"noop"`
	FlushWindow string   `yaml:"flushWindow"`
	Ignore      []string `yaml:"ignore"`
}
