package twin

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// Tone is the colour band a persona is rendered in.
type Tone string

const (
	ToneStress   Tone = "stress"
	ToneMild     Tone = "mild"
	ToneBalanced Tone = "balanced"
)

// PersonaInfo is the display metadata for one persona.
type PersonaInfo struct {
	ID          domain.Persona `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Tone        Tone           `yaml:"tone" json:"tone"`
	Color       string         `yaml:"color" json:"color"`
	Icon        string         `yaml:"icon" json:"icon"`
}

//go:embed personas.yaml
var personasYAML []byte

type catalogFile struct {
	Personas []PersonaInfo `yaml:"personas"`
}

var (
	catalogOnce sync.Once
	catalog     []PersonaInfo
	catalogByID map[domain.Persona]PersonaInfo
	catalogErr  error
)

func loadCatalog() {
	var f catalogFile
	if err := yaml.Unmarshal(personasYAML, &f); err != nil {
		catalogErr = fmt.Errorf("parse persona catalog: %w", err)
		return
	}
	byID := make(map[domain.Persona]PersonaInfo, len(f.Personas))
	for _, p := range f.Personas {
		if !p.ID.Valid() {
			catalogErr = fmt.Errorf("persona catalog: unknown persona %q", p.ID)
			return
		}
		byID[p.ID] = p
	}
	for _, p := range domain.Personas {
		if _, ok := byID[p]; !ok {
			catalogErr = fmt.Errorf("persona catalog: missing persona %q", p)
			return
		}
	}
	catalog = f.Personas
	catalogByID = byID
}

// Catalog returns every persona's display metadata in classifier order.
// The embedded file is validated once; a broken file is a build defect, so it panics.
func Catalog() []PersonaInfo {
	catalogOnce.Do(loadCatalog)
	if catalogErr != nil {
		panic(catalogErr)
	}
	out := make([]PersonaInfo, len(catalog))
	copy(out, catalog)
	return out
}

func Info(p domain.Persona) (PersonaInfo, bool) {
	catalogOnce.Do(loadCatalog)
	if catalogErr != nil {
		panic(catalogErr)
	}
	info, ok := catalogByID[p]
	return info, ok
}

// DisplayName falls back to the raw id for unknown personas.
func DisplayName(p domain.Persona) string {
	if info, ok := Info(p); ok {
		return info.Name
	}
	return string(p)
}
