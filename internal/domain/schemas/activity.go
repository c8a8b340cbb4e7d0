package schemas

import "fmt"

// activityOrder is the canonical top-level key order of an activity
// document.
var activityOrder = append(append([]string{}, commonOrder...),
	"citation",
	"compute",
)

// Activity groups an ordered list of items. Appended items are referenced
// from the embedded ui sub-document by their schema file's relative path.
type Activity struct {
	Base
	ui *UI
}

// NewActivity builds an activity from opts. The name defaults to
// "activity".
func NewActivity(opts Options) (*Activity, error) {
	base, err := newBase(TypeActivity, "activity", activityOrder, opts)
	if err != nil {
		return nil, err
	}
	return &Activity{Base: base, ui: NewUI()}, nil
}

// UI returns the embedded presentation sub-document.
func (a *Activity) UI() *UI { return a.ui }

// AppendItem records item at the end of the activity's order. The reference
// is the item's URI, which callers keep relative to the activity's own
// location. Appending the same item twice creates two order entries;
// duplicates are allowed, not an error.
func (a *Activity) AppendItem(item *Item) {
	a.ui.Append(entryFor(&item.Base, item.URI()))
}

// Document projects the activity into its canonical ordered document.
func (a *Activity) Document() *Document {
	doc := a.baseDocument()
	doc.Set("ui", a.ui.Document(uiOrder))
	return a.finalize(doc)
}

// Write persists the activity document to dir, defaulting to the configured
// output directory.
func (a *Activity) Write(dir string) error {
	return a.write(a.Document(), dir)
}

// ActivityFromDocument parses data into an activity. The @type tag must be
// present and equal reproschema:Activity.
func ActivityFromDocument(doc *Document) (*Activity, error) {
	if err := checkType(doc, TypeActivity); err != nil {
		return nil, err
	}
	a, err := NewActivity(Options{})
	if err != nil {
		return nil, err
	}
	if err := a.applyDocument(doc); err != nil {
		return nil, err
	}
	if v, ok := doc.Get("ui"); ok {
		ud, ok := v.(*Document)
		if !ok {
			return nil, fmt.Errorf("%w: ui must be a mapping, got %T", ErrValidation, v)
		}
		ui, err := uiFromDocument(ud, a.lang)
		if err != nil {
			return nil, err
		}
		a.ui = ui
	}
	return a, nil
}

// ActivityFromFile reads a JSON document from path and parses it as an
// activity.
func ActivityFromFile(path string) (*Activity, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return ActivityFromDocument(doc)
}
