package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDir is the root directory for saved recordings.
var SaveDir = ".saves"

const (
	programFile = "program.go"
	configFile  = "config.yaml"
	actionsFile = "actions.yaml"
)

type recordingMeta struct {
	Config RunConfig `yaml:"config"`
	Avatar int       `yaml:"avatar"`
}

func (r *Recording) Save(name string) error {
	dir := filepath.Join(SaveDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Save program.go
	if err := os.WriteFile(filepath.Join(dir, programFile), []byte(r.Program), 0644); err != nil {
		return err
	}

	// Save config.yaml
	metaData, err := yaml.Marshal(recordingMeta{Config: r.Config, Avatar: r.Avatar})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), metaData, 0644); err != nil {
		return err
	}

	// Save actions.yaml
	actionsData, err := yaml.Marshal(r.Actions)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, actionsFile), actionsData, 0644); err != nil {
		return err
	}

	return nil
}

func LoadRecording(name string) (*Recording, error) {
	dir := filepath.Join(SaveDir, name)

	// Load program
	program, err := os.ReadFile(filepath.Join(dir, programFile))
	if err != nil {
		return nil, err
	}

	// Load config
	metaData, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		return nil, err
	}
	var meta recordingMeta
	if err := yaml.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	// Load actions
	actionsData, err := os.ReadFile(filepath.Join(dir, actionsFile))
	if err != nil {
		return nil, err
	}
	var actions ActionLog
	if err := yaml.Unmarshal(actionsData, &actions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", actionsFile, err)
	}

	return &Recording{
		Program: string(program),
		Config:  meta.Config,
		Avatar:  meta.Avatar,
		Actions: actions,
	}, nil
}

func ListRecordings() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			// actions.yaml marks a complete recording
			actionsPath := filepath.Join(SaveDir, entry.Name(), actionsFile)
			if _, err := os.Stat(actionsPath); err == nil {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}
