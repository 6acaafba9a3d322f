package models

// RunConfig describes a single simulated run.
type RunConfig struct {
	AvatarHP int    `yaml:"avatar_hp"`
	AvatarMP int    `yaml:"avatar_mp"`
	Rounds   int    `yaml:"rounds"`
	Seed     *int64 `yaml:"seed,omitempty"` // nil means a time-based seed
}

// Recording aggregates everything needed to replay a run later.
type Recording struct {
	Program string    `yaml:"-"` // stored next to the yaml files as program.go
	Config  RunConfig `yaml:"config"`
	Avatar  int       `yaml:"avatar"`
	Actions ActionLog `yaml:"actions"`
}
