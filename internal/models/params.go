package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is an insertion-ordered key/value mapping.
// The zero value is empty and ready to use. Copies share storage until
// one side is cloned.
type Params struct {
	m *orderedmap.OrderedMap[string, any]
}

// Set stores value under key. Re-setting a key keeps its original position.
func (p *Params) Set(key string, value any) {
	if p.m == nil {
		p.m = orderedmap.New[string, any]()
	}
	p.m.Set(key, value)
}

// Get returns the value stored under key
func (p Params) Get(key string) (any, bool) {
	if p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

// Float returns the value under key when it holds a float64
func (p Params) Float(key string) (float64, bool) {
	v, _ := p.Get(key)
	f, ok := v.(float64)
	return f, ok
}

// Len returns the number of keys
func (p Params) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Keys returns the keys in insertion order
func (p Params) Keys() []string {
	keys := make([]string, 0, p.Len())
	p.each(func(k string, _ any) {
		keys = append(keys, k)
	})
	return keys
}

// Clone returns a copy that can be modified independently
func (p Params) Clone() Params {
	var out Params
	out.Merge(p)
	return out
}

// Merge sets every entry of other on p, in other's order
func (p *Params) Merge(other Params) {
	other.each(p.Set)
}

func (p Params) each(fn func(key string, value any)) {
	if p.m == nil {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// MarshalJSON writes the params as a JSON object preserving insertion order
func (p Params) MarshalJSON() ([]byte, error) {
	if p.m == nil {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}
