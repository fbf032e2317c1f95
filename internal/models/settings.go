package models

import "time"

// Settings is the persisted state of the configuration panel.
type Settings struct {
	ID         int              `json:"id"`
	Preset     PresetMode       `json:"preset"`
	Parameters SystemParameters `json:"parameters"`
	Generation GenerationConfig `json:"generation"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
