package scale

import "github.com/gogpu/gg"

// Ordinal maps categories onto colors one-to-one.
type Ordinal struct {
	domain  []string
	rng     []gg.RGBA
	index   map[string]int
	unknown gg.RGBA
}

func NewOrdinal(domain []string, rng []gg.RGBA) *Ordinal {
	o := &Ordinal{domain: domain, rng: rng, unknown: Unknown, index: make(map[string]int, len(domain))}
	for i, d := range domain {
		o.index[d] = i
	}
	return o
}

func (o *Ordinal) Validate() error {
	if len(o.rng) == 0 {
		return &ConfigError{Scale: "ordinal", Reason: "empty range"}
	}
	if len(o.domain) != len(o.rng) {
		return &ConfigError{Scale: "ordinal", Reason: "domain/range size mismatch"}
	}
	if len(o.index) != len(o.domain) {
		return &ConfigError{Scale: "ordinal", Reason: "duplicate domain value"}
	}
	return nil
}

func (o *Ordinal) Map(key string) gg.RGBA {
	c, _ := o.Lookup(key)
	return c
}

// Lookup is Map that also reports whether key is in the domain.
func (o *Ordinal) Lookup(key string) (gg.RGBA, bool) {
	if i, ok := o.index[key]; ok {
		return o.rng[i], true
	}
	return o.unknown, false
}

// Category10 maps color names onto the d3 category10 palette.
func Category10() *Ordinal {
	names := []string{"blue", "orange", "green", "red", "purple", "brown", "pink", "gray", "olive", "cyan"}
	hex := []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"}
	rng := make([]gg.RGBA, len(hex))
	for i, h := range hex {
		c, err := ParseColor(h)
		if err != nil {
			panic("scale: bad palette color " + h)
		}
		rng[i] = c
	}
	return NewOrdinal(names, rng)
}
