package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Files   FilesConfig   `toml:"files"`
	Limits  LimitsConfig  `toml:"limits"`
	Backup  BackupConfig  `toml:"backup"`
	Schema  SchemaConfig  `toml:"schema"`
	Logging LoggingConfig `toml:"logging"`
}

// FilesConfig names the three data files inside the working folder.
// The names are a compatibility contract with the game server; they are
// configurable only for servers that renamed the files wholesale.
type FilesConfig struct {
	MonsterTable string `toml:"monster_table"` // flat stat table, authoritative
	MonsterList  string `toml:"monster_list"`  // derived display list, regenerated
	MonsterSpawn string `toml:"monster_spawn"` // map → spot → spawn placement
}

type LimitsConfig struct {
	IndexMin int `toml:"index_min"` // lowest monster index the server accepts
	IndexMax int `toml:"index_max"` // highest monster index the server accepts
	CoordMin int `toml:"coord_min"` // map tile coordinate lower bound
	CoordMax int `toml:"coord_max"` // map tile coordinate upper bound (255 = MU map edge)
	DirMin   int `toml:"dir_min"`   // -1 = random facing
	DirMax   int `toml:"dir_max"`
}

type BackupConfig struct {
	TimestampLayout string `toml:"timestamp_layout"` // Go time layout appended as .bak_<stamp>
}

// SchemaConfig optionally points at a YAML file overriding the built-in
// monster column schema (custom servers carry extra columns).
type SchemaConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Files: FilesConfig{
			MonsterTable: "Monster.txt",
			MonsterList:  "MonsterList.xml",
			MonsterSpawn: "MonsterSpawn.xml",
		},
		Limits: LimitsConfig{
			IndexMin: 0,
			IndexMax: 65535,
			CoordMin: 0,
			CoordMax: 255,
			DirMin:   -1,
			DirMax:   7,
		},
		Backup: BackupConfig{
			TimestampLayout: "20060102_150405",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
