package templatex

// Field names every view exposes besides its deferred fields.
const (
	FieldType    = "type"
	FieldTitle   = "title"
	FieldHeading = "heading"
)

type deferredField struct {
	name string
	lazy Lazy
}

// View is the data handed to one render call: fixed page fields plus
// deferred fields such as rendered regions.
type View struct {
	Type    string
	Title   string
	Heading string

	deferred []deferredField
}

// Defer registers a field computed only if a template interpolates it.
// Registering the same name again replaces the earlier function.
func (v *View) Defer(name string, fn func() (string, error)) Lazy {
	lazy := NewLazy(fn)
	for i := range v.deferred {
		if v.deferred[i].name == name {
			v.deferred[i].lazy = lazy
			return lazy
		}
	}
	v.deferred = append(v.deferred, deferredField{name: name, lazy: lazy})
	return lazy
}

// Deferred returns the lazy field registered under name.
func (v *View) Deferred(name string) (Lazy, bool) {
	for _, field := range v.deferred {
		if field.name == name {
			return field.lazy, true
		}
	}
	return Lazy{}, false
}

// context builds the data for one render. Deferred fields are wrapped so the
// render can tell which of them it interpolated.
func (v *View) context() (map[string]any, *renderTrace) {
	trace := &renderTrace{}
	data := make(map[string]any, len(v.deferred)+3)
	for _, field := range v.deferred {
		data[field.name] = tracedLazy{lazy: field.lazy, trace: trace}
	}
	data[FieldType] = v.Type
	data[FieldTitle] = v.Title
	data[FieldHeading] = v.Heading
	return data, trace
}

// renderTrace collects the deferred fields one render interpolated.
type renderTrace struct {
	used []Lazy
}

// err returns the first failure among the fields this render used.
func (r *renderTrace) err() error {
	for _, lazy := range r.used {
		if err := lazy.Err(); err != nil {
			return err
		}
	}
	return nil
}

type tracedLazy struct {
	lazy  Lazy
	trace *renderTrace
}

func (t tracedLazy) String() string {
	t.trace.used = append(t.trace.used, t.lazy)
	return t.lazy.String()
}
