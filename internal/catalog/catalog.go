package catalog

// Catalog groups the part libraries of one sweep. An empty ESCs list means
// every configuration uses IdealESC.
type Catalog struct {
	Propellers []Propeller `json:"propellers" yaml:"propellers"`
	Motors     []Motor     `json:"motors" yaml:"motors"`
	Batteries  []Battery   `json:"batteries" yaml:"batteries"`
	ESCs       []ESC       `json:"escs,omitempty" yaml:"escs,omitempty"`
}

// Validate returns the first malformed entry, wrapped in ErrMalformedEntry.
func (c Catalog) Validate() error {
	for i, p := range c.Propellers {
		if err := p.Validate(); err != nil {
			return entryError("propellers", i, p.Name, err)
		}
	}
	for i, m := range c.Motors {
		if err := m.Validate(); err != nil {
			return entryError("motors", i, m.Name, err)
		}
	}
	for i, b := range c.Batteries {
		if err := b.Validate(); err != nil {
			return entryError("batteries", i, b.Name, err)
		}
	}
	for i, e := range c.ESCs {
		if err := e.Validate(); err != nil {
			return entryError("escs", i, e.Name, err)
		}
	}
	return nil
}

// Empty reports whether any required part library has no entries.
func (c Catalog) Empty() bool {
	return len(c.Propellers) == 0 || len(c.Motors) == 0 || len(c.Batteries) == 0
}

// Controllers returns the ESC axis of the sweep.
func (c Catalog) Controllers() []ESC {
	if len(c.ESCs) == 0 {
		return []ESC{IdealESC()}
	}
	return c.ESCs
}

// Size is the number of hardware combinations the catalog spans.
func (c Catalog) Size() int {
	return len(c.Propellers) * len(c.Motors) * len(c.Batteries) * len(c.Controllers())
}

// Merge returns a catalog holding the entries of both, c first.
func (c Catalog) Merge(other Catalog) Catalog {
	return Catalog{
		Propellers: append(append([]Propeller(nil), c.Propellers...), other.Propellers...),
		Motors:     append(append([]Motor(nil), c.Motors...), other.Motors...),
		Batteries:  append(append([]Battery(nil), c.Batteries...), other.Batteries...),
		ESCs:       append(append([]ESC(nil), c.ESCs...), other.ESCs...),
	}
}
