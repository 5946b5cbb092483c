package stores

import (
	"errors"
	"fmt"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrPresetNameRequired = errors.New("preset name is required")
	ErrPresetNameTaken    = errors.New("a preset with this name already exists")
	ErrPresetNotFound     = errors.New("preset not found")
	ErrPresetNotSaved     = errors.New("preset could not be saved")
)

type Presets struct {
	base
}

func (p *Presets) List() []models.SearchPreset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read()
}

func (p *Presets) read() []models.SearchPreset {
	raw, ok := p.slot.Load()
	if !ok {
		return []models.SearchPreset{}
	}
	list, dropped := models.NormalizePresets(raw)
	p.report(len(list), dropped, 0)
	return list
}

func (p *Presets) write(list []models.SearchPreset) bool {
	return p.slot.Save(canonicalList(models.PresetCodec, list))
}

func (p *Presets) Get(id string) (models.SearchPreset, bool) {
	for _, preset := range p.List() {
		if preset.ID == id {
			return preset, true
		}
	}
	return models.SearchPreset{}, false
}

// Save stores a new preset. The name is trimmed and truncated, must be
// non-blank and must not match an existing name case-insensitively. Invalid
// filter fields and tabs are reset rather than rejected.
func (p *Presets) Save(name string, tab int, filters models.SearchFilters) (models.SearchPreset, error) {
	clean, ok := models.PresetName(name)
	if !ok {
		return models.SearchPreset{}, ErrPresetNameRequired
	}
	id, err := gonanoid.New()
	if err != nil {
		return models.SearchPreset{}, fmt.Errorf("generate preset id: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.read()
	for _, existing := range list {
		if models.NameKey(existing.Name) == models.NameKey(clean) {
			return models.SearchPreset{}, ErrPresetNameTaken
		}
	}
	preset, ok := codec.Canonical(models.PresetCodec, models.SearchPreset{
		ID:          id,
		Name:        clean,
		SelectedTab: tab,
		Filters:     filters,
		CreatedAt:   p.clock.Now().UnixMilli(),
	})
	if !ok {
		return models.SearchPreset{}, ErrPresetNotSaved
	}
	if !p.write(append(list, preset)) {
		return models.SearchPreset{}, ErrPresetNotSaved
	}
	return preset, nil
}

func (p *Presets) Delete(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.read()
	for i := range list {
		if list[i].ID == id {
			p.write(append(list[:i], list[i+1:]...))
			return nil
		}
	}
	return ErrPresetNotFound
}

func (p *Presets) Replace(raw any) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	list, dropped := models.NormalizePresets(raw)
	p.report(len(list), dropped, 0)
	p.write(list)
	return len(list)
}
