package stores

import (
	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
)

// Preferences holds the personal-fit weights. Reads never fail; a missing or
// unreadable value yields the defaults.
type Preferences struct {
	base
}

func (p *Preferences) Read() models.FitPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw, ok := p.slot.Load()
	if !ok {
		return models.DefaultPreferences()
	}
	prefs, _ := models.NormalizePreferences(raw)
	return prefs
}

// Write clamps prefs, stores them and returns what was stored.
func (p *Preferences) Write(prefs models.FitPreferences) models.FitPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(prefs.Clamped())
}

func (p *Preferences) write(prefs models.FitPreferences) models.FitPreferences {
	if v, ok := codec.Canonical(models.PreferencesCodec, prefs); ok {
		prefs = v
	}
	p.slot.Save(prefs)
	return prefs
}

func (p *Preferences) Replace(raw any) models.FitPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, _ := models.NormalizePreferences(raw)
	return p.write(prefs)
}
