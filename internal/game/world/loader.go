package world

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml content/*.lua
var content embed.FS

// Embedded world identifiers.
const (
	CastleID = "castle"
	HorrorID = "horror"
)

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

type yamlWorld struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	StartLocation string         `yaml:"start_location"`
	Locations     []yamlLocation `yaml:"locations"`
}

type yamlLocation struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description"`
	LongDescription string            `yaml:"long_description"`
	Exits           []yamlExit        `yaml:"exits"`
	Items           []yamlItem        `yaml:"items"`
	NPCs            []yamlNPC         `yaml:"npcs"`
	Properties      map[string]string `yaml:"properties"`
}

type yamlExit struct {
	Direction    string `yaml:"direction"`
	Target       string `yaml:"target"`
	Description  string `yaml:"description"`
	Locked       bool   `yaml:"locked"`
	RequiredItem string `yaml:"required_item"`
}

type yamlItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Takeable    bool   `yaml:"takeable"`
	Usable      bool   `yaml:"usable"`
}

type yamlNPC struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Dialogue    []string `yaml:"dialogue"`
}

// NewCastle builds a fresh castle world from the embedded content.
func NewCastle() *Model {
	return mustLoadEmbedded("content/castle.yaml")
}

// NewHorror builds a fresh horror-house world from the embedded content.
func NewHorror() *Model {
	return mustLoadEmbedded("content/horror.yaml")
}

// Script returns the embedded ambience script for worldID, if any.
func Script(worldID string) (string, bool) {
	data, err := content.ReadFile("content/" + worldID + ".lua")
	if err != nil {
		return "", false
	}
	return string(data), true
}

func mustLoadEmbedded(name string) *Model {
	data, err := content.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("world: reading embedded %s: %v", name, err))
	}
	m, err := LoadModelFromBytes(data)
	if err != nil {
		panic(fmt.Sprintf("world: loading embedded %s: %v", name, err))
	}
	return m
}

// LoadModelFromFile reads and validates a single world YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated Model or a non-nil error.
func LoadModelFromFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return LoadModelFromBytes(data)
}

// LoadModelFromBytes parses and validates a world from YAML bytes.
//
// Postcondition: Returns a validated Model or a non-nil error.
func LoadModelFromBytes(data []byte) (*Model, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	m := convertYAMLWorld(file.World)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return m, nil
}

// convertYAMLWorld converts the parsed YAML structures into domain types.
func convertYAMLWorld(yw yamlWorld) *Model {
	m := &Model{
		ID:            yw.ID,
		Name:          yw.Name,
		StartLocation: yw.StartLocation,
		Locations:     make(map[string]*Location, len(yw.Locations)),
	}

	for _, yl := range yw.Locations {
		loc := &Location{
			ID:              yl.ID,
			Name:            yl.Name,
			Description:     strings.TrimSpace(yl.Description),
			LongDescription: strings.TrimSpace(yl.LongDescription),
			Exits:           make([]Exit, 0, len(yl.Exits)),
			Items:           make([]Item, 0, len(yl.Items)),
			Properties:      yl.Properties,
		}
		for _, ye := range yl.Exits {
			loc.Exits = append(loc.Exits, Exit{
				Direction:    ye.Direction,
				TargetID:     ye.Target,
				Description:  ye.Description,
				Locked:       ye.Locked,
				RequiredItem: ye.RequiredItem,
			})
		}
		for _, yi := range yl.Items {
			loc.Items = append(loc.Items, Item{
				ID:          yi.ID,
				Name:        yi.Name,
				Description: strings.TrimSpace(yi.Description),
				Takeable:    yi.Takeable,
				Usable:      yi.Usable,
			})
		}
		for _, yn := range yl.NPCs {
			loc.NPCs = append(loc.NPCs, NPC{
				ID:          yn.ID,
				Name:        yn.Name,
				Description: strings.TrimSpace(yn.Description),
				Dialogue:    yn.Dialogue,
			})
		}
		m.Locations[loc.ID] = loc
	}

	return m
}
