package schemas

import "fmt"

// uiOrder is the canonical key order of the ui sub-document on protocols and
// activities. Items carry only an allow list.
var uiOrder = []string{"shuffle", "order", "addProperties", "allow"}

// itemUIOrder is the canonical ui order for items.
var itemUIOrder = []string{"allow"}

// orderEntryOrder is the canonical key order of one addProperties entry.
var orderEntryOrder = []string{
	"variableName",
	"isAbout",
	"prefLabel",
	"isVis",
	"requiredValue",
	"allow",
	"limit",
	"randomMaxDelay",
	"schedule",
}

// OrderEntry is one row of a ui.addProperties list: the reference from a
// protocol or activity to one of its children, plus per-child presentation
// and scheduling directives.
type OrderEntry struct {
	Variable       string // variableName
	IsAbout        string // relative path of the child's schema file
	PrefLabel      LangMap
	IsVis          *bool // emitted only when the child is hidden
	Required       *bool // requiredValue, emitted only when true
	Allow          []string
	Limit          string
	RandomMaxDelay string
	Schedule       string
}

// UI is the presentation sub-document embedded in protocols and activities:
// the ordered list of children, per-child directives and shuffle/allow
// flags.
type UI struct {
	shuffle bool
	order   []string
	entries []OrderEntry
	allow   []string
}

// NewUI returns an empty, non-shuffled ui sub-document.
func NewUI() *UI {
	return &UI{}
}

// SetShuffle toggles randomized child order.
func (u *UI) SetShuffle(shuffle bool) { u.shuffle = shuffle }

// Shuffle reports whether child order is randomized.
func (u *UI) Shuffle() bool { return u.shuffle }

// Order returns the ordered child references.
func (u *UI) Order() []string {
	out := make([]string, len(u.order))
	copy(out, u.order)
	return out
}

// Entries returns the addProperties rows in order.
func (u *UI) Entries() []OrderEntry {
	out := make([]OrderEntry, len(u.entries))
	copy(out, u.entries)
	return out
}

// SetAllow replaces the allow list.
func (u *UI) SetAllow(allow []string) { u.allow = allow }

// Append records a child reference at the end of the order. Duplicates are
// allowed: appending the same child twice yields two order entries.
func (u *UI) Append(entry OrderEntry) {
	u.order = append(u.order, entry.IsAbout)
	u.entries = append(u.entries, entry)
}

// Document projects the ui into an ordered document using the given
// canonical order.
func (u *UI) Document(order []string) *Document {
	doc := NewDocument()
	doc.Set("shuffle", u.shuffle)
	if len(u.order) > 0 {
		refs := make([]any, len(u.order))
		for i, ref := range u.order {
			refs[i] = ref
		}
		doc.Set("order", refs)
	}
	if len(u.entries) > 0 {
		props := make([]any, 0, len(u.entries))
		for _, entry := range u.entries {
			props = append(props, entry.document())
		}
		doc.Set("addProperties", props)
	}
	if len(u.allow) > 0 {
		allow := make([]any, len(u.allow))
		for i, a := range u.allow {
			allow[i] = a
		}
		doc.Set("allow", allow)
	}
	return doc.Reorder(order)
}

func (e OrderEntry) document() *Document {
	doc := NewDocument()
	doc.Set("variableName", e.Variable)
	doc.Set("isAbout", e.IsAbout)
	doc.Set("prefLabel", e.PrefLabel.Copy())
	if e.IsVis != nil {
		doc.Set("isVis", *e.IsVis)
	}
	if e.Required != nil {
		doc.Set("requiredValue", *e.Required)
	}
	if len(e.Allow) > 0 {
		allow := make([]any, len(e.Allow))
		for i, a := range e.Allow {
			allow[i] = a
		}
		doc.Set("allow", allow)
	}
	doc.Set("limit", e.Limit)
	doc.Set("randomMaxDelay", e.RandomMaxDelay)
	doc.Set("schedule", e.Schedule)
	return doc.Reorder(orderEntryOrder).Prune()
}

// entryFor builds the addProperties row describing child, referenced at the
// given relative path.
func entryFor(child *Base, ref string) OrderEntry {
	entry := OrderEntry{
		Variable:       child.name,
		IsAbout:        ref,
		PrefLabel:      child.prefLabel.Copy(),
		Limit:          child.limit,
		RandomMaxDelay: child.randomDelay,
		Schedule:       child.schedule,
	}
	if !child.visible {
		hidden := false
		entry.IsVis = &hidden
	}
	if child.required {
		required := true
		entry.Required = &required
	}
	if child.skippable {
		entry.Allow = []string{AllowSkipped}
	}
	return entry
}

// uiFromDocument parses a loaded ui sub-document back into a UI value.
func uiFromDocument(doc *Document, defaultLang string) (*UI, error) {
	ui := NewUI()
	if v, ok := doc.Get("shuffle"); ok {
		flag, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: ui.shuffle must be a boolean, got %T", ErrValidation, v)
		}
		ui.shuffle = flag
	}
	if v, ok := doc.Get("order"); ok {
		refs, err := asStringSlice(v, "ui.order")
		if err != nil {
			return nil, err
		}
		ui.order = refs
	}
	if v, ok := doc.Get("allow"); ok {
		allow, err := asStringSlice(v, "ui.allow")
		if err != nil {
			return nil, err
		}
		ui.allow = allow
	}
	if v, ok := doc.Get("addProperties"); ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: ui.addProperties must be a sequence, got %T", ErrValidation, v)
		}
		for _, raw := range list {
			ed, ok := raw.(*Document)
			if !ok {
				return nil, fmt.Errorf("%w: addProperties entry must be a mapping, got %T", ErrValidation, raw)
			}
			entry, err := orderEntryFromDocument(ed, defaultLang)
			if err != nil {
				return nil, err
			}
			ui.entries = append(ui.entries, entry)
		}
	}
	return ui, nil
}

func orderEntryFromDocument(doc *Document, defaultLang string) (OrderEntry, error) {
	var entry OrderEntry
	if err := applyString(doc, "variableName", &entry.Variable); err != nil {
		return entry, err
	}
	if err := applyString(doc, "isAbout", &entry.IsAbout); err != nil {
		return entry, err
	}
	if err := applyLangMap(doc, "prefLabel", defaultLang, &entry.PrefLabel); err != nil {
		return entry, err
	}
	if v, ok := doc.Get("isVis"); ok {
		flag, ok := v.(bool)
		if !ok {
			return entry, fmt.Errorf("%w: isVis must be a boolean, got %T", ErrValidation, v)
		}
		entry.IsVis = &flag
	}
	if v, ok := doc.Get("requiredValue"); ok {
		flag, ok := v.(bool)
		if !ok {
			return entry, fmt.Errorf("%w: requiredValue must be a boolean, got %T", ErrValidation, v)
		}
		entry.Required = &flag
	}
	if v, ok := doc.Get("allow"); ok {
		allow, err := asStringSlice(v, "allow")
		if err != nil {
			return entry, err
		}
		entry.Allow = allow
	}
	if err := applyString(doc, "limit", &entry.Limit); err != nil {
		return entry, err
	}
	if err := applyString(doc, "randomMaxDelay", &entry.RandomMaxDelay); err != nil {
		return entry, err
	}
	if err := applyString(doc, "schedule", &entry.Schedule); err != nil {
		return entry, err
	}
	return entry, nil
}

func asStringSlice(v any, key string) ([]string, error) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, raw := range list {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s entry must be a string, got %T", ErrValidation, key, raw)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s must be a sequence, got %T", ErrValidation, key, v)
}
