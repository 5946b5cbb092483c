package stores

import (
	"errors"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
)

var ErrUnknownChecklistItem = errors.New("unknown checklist item")

// Checklists keeps one adoption checklist per listing ID.
type Checklists struct {
	base
}

func (c *Checklists) Read() models.AdoptionChecklists {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *Checklists) read() models.AdoptionChecklists {
	raw, ok := c.slot.Load()
	if !ok {
		return models.AdoptionChecklists{}
	}
	lists, dropped := models.NormalizeChecklists(raw)
	c.report(len(lists), dropped, 0)
	return lists
}

func (c *Checklists) write(lists models.AdoptionChecklists) bool {
	return c.slot.Save(canonicalMap(models.ChecklistCodec, lists))
}

// Get returns the checklist for id with every item present. A listing with
// no checklist gets an empty one.
func (c *Checklists) Get(id string) models.AdoptionChecklist {
	if list, ok := c.Read()[id]; ok {
		return list
	}
	return models.NewChecklist()
}

func (c *Checklists) SetItem(id, item string, done bool) (models.AdoptionChecklist, error) {
	if !models.IsChecklistItem(item) {
		return models.AdoptionChecklist{}, ErrUnknownChecklistItem
	}
	return c.update(id, func(list *models.AdoptionChecklist) {
		list.Items[item] = done
	}), nil
}

// SetNotes stores notes truncated to the notes limit.
func (c *Checklists) SetNotes(id, notes string) models.AdoptionChecklist {
	return c.update(id, func(list *models.AdoptionChecklist) {
		list.Notes = codec.Truncate(notes, models.MaxChecklistNotes)
	})
}

func (c *Checklists) update(id string, fn func(*models.AdoptionChecklist)) models.AdoptionChecklist {
	c.mu.Lock()
	defer c.mu.Unlock()
	lists := c.read()
	list, ok := lists[id]
	if !ok {
		list = models.NewChecklist()
	}
	fn(&list)
	lists[id] = list
	c.write(lists)
	return list
}

func (c *Checklists) Clear(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	lists := c.read()
	if _, ok := lists[id]; !ok {
		return false
	}
	delete(lists, id)
	return c.write(lists)
}

func (c *Checklists) Replace(raw any) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	lists, dropped := models.NormalizeChecklists(raw)
	c.report(len(lists), dropped, 0)
	c.write(lists)
	return len(lists)
}
