package stores

import "adoptwatch/internal/codec"

// Flag is a boolean preference stored as a JSON boolean. A flag with
// removeWhenFalse stores literal true or nothing at all.
type Flag struct {
	base
	def             bool
	removeWhenFalse bool
}

func (f *Flag) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get()
}

func (f *Flag) get() bool {
	raw, ok := f.slot.Load()
	if !ok {
		return f.def
	}
	v, ok := codec.Bool(raw)
	if !ok {
		return f.def
	}
	return v
}

func (f *Flag) Set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set(v)
}

func (f *Flag) set(v bool) {
	if !v && f.removeWhenFalse {
		f.slot.Remove()
		return
	}
	f.slot.Save(v)
}

// Replace imports a raw value; anything but a boolean resets to the default.
func (f *Flag) Replace(raw any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := codec.Bool(raw)
	if !ok {
		v = f.def
	}
	f.set(v)
	return v
}
