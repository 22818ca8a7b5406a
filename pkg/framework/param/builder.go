package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
}

// New creates a new parameter builder
func New(id uint32, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:        id,
			Name:      name,
			ShortName: name,
			Min:       0,
			Max:       1,
			Flags:     CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value (in plain range, not normalized).
// Call it after Range.
func (b *Builder) Default(value float64) *Builder {
	b.param.DefaultValue = b.param.Normalize(value)
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Flags sets parameter flags
func (b *Builder) Flags(flags uint32) *Builder {
	b.param.Flags = flags
	return b
}

// List marks the parameter as a list of named choices.
func (b *Builder) List() *Builder {
	b.param.Flags |= IsList
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	b.param.Flags &^= CanAutomate
	return b
}

// Bypass marks this as the bypass parameter
func (b *Builder) Bypass() *Builder {
	b.param.Flags |= IsBypass
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	b.param.Reset()
	return b.param
}
