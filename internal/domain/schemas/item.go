package schemas

import "fmt"

// itemOrder is the canonical top-level key order of an item document.
var itemOrder = append(append([]string{}, commonOrder...),
	"inputType",
	"question",
	"responseOptions",
	"readonlyValue",
)

// Input type presets supported by SetInputType.
const (
	InputText      = "text"
	InputMultitext = "multitext"
	InputEmail     = "email"
	InputID        = "pid"
	InputDate      = "date"
	InputTimeRange = "timeRange"
	InputYear      = "year"
	InputLanguage  = "selectLanguage"
	InputCountry   = "selectCountry"
	InputState     = "selectState"
	InputFloat     = "float"
	InputInteger   = "number"
	InputRadio     = "radio"
	InputSelect    = "select"
	InputSlider    = "slider"
)

// Item is a single question or score field. Its document appends inputType,
// question, responseOptions and readonlyValue to the common key order.
type Item struct {
	Base
	inputType string
	question  LangMap
	response  *ResponseOption
	readonly  *bool
}

// NewItem builds an item from opts. The name defaults to "item".
func NewItem(opts Options) (*Item, error) {
	base, err := newBase(TypeField, "item", itemOrder, opts)
	if err != nil {
		return nil, err
	}
	it := &Item{Base: base}
	it.SetInputTypeText(0)
	return it, nil
}

// InputType returns the current input type preset name.
func (it *Item) InputType() string { return it.inputType }

// Question returns the question text map.
func (it *Item) Question() LangMap { return it.question.Copy() }

// ResponseOptions returns the attached response options, nil when the input
// type has none.
func (it *Item) ResponseOptions() *ResponseOption { return it.response }

// SetQuestion sets the question text for lang.
func (it *Item) SetQuestion(text string, lang ...string) {
	if it.question == nil {
		it.question = LangMap{}
	}
	it.question[it.langOrDefault(lang)] = text
}

// SetReadOnly marks the item's value as read only, typically a computed
// score. Read-only items usually also Unset("question").
func (it *Item) SetReadOnly(readonly bool) {
	it.readonly = &readonly
}

// SetInputTypeText configures a single-line text answer. maxLength caps the
// answer length; zero leaves it uncapped.
func (it *Item) SetInputTypeText(maxLength int) {
	it.setFreeText(InputText, "xsd:string", maxLength)
}

// SetInputTypeMultitext configures a multi-line text answer.
func (it *Item) SetInputTypeMultitext(maxLength int) {
	it.setFreeText(InputMultitext, "xsd:string", maxLength)
}

// SetInputTypeEmail configures an e-mail address answer.
func (it *Item) SetInputTypeEmail() {
	it.setFreeText(InputEmail, "xsd:string", 0)
}

// SetInputTypeParticipantID configures a participant identifier answer.
func (it *Item) SetInputTypeParticipantID() {
	it.setFreeText(InputID, "xsd:string", 0)
}

// SetInputTypeDate configures a date answer.
func (it *Item) SetInputTypeDate() {
	it.setFreeText(InputDate, "xsd:date", 0)
}

// SetInputTypeTimeRange configures a time range answer.
func (it *Item) SetInputTypeTimeRange() {
	it.setFreeText(InputTimeRange, "datetime", 0)
}

// SetInputTypeYear configures a year answer.
func (it *Item) SetInputTypeYear() {
	it.setFreeText(InputYear, "xsd:gYear", 0)
}

// SetInputTypeLanguage configures a language selection answer.
func (it *Item) SetInputTypeLanguage() {
	it.setFreeText(InputLanguage, "xsd:string", 0)
}

// SetInputTypeCountry configures a country selection answer.
func (it *Item) SetInputTypeCountry() {
	it.setFreeText(InputCountry, "xsd:string", 0)
}

// SetInputTypeState configures a US state selection answer.
func (it *Item) SetInputTypeState() {
	it.setFreeText(InputState, "xsd:string", 0)
}

// SetInputTypeFloat configures a floating point answer.
func (it *Item) SetInputTypeFloat() {
	it.setFreeText(InputFloat, "xsd:float", 0)
}

// SetInputTypeInteger configures an integer answer.
func (it *Item) SetInputTypeInteger() {
	it.setFreeText(InputInteger, "xsd:integer", 0)
}

// SetInputTypeRadio configures a single-selection choice answer. The
// response options must carry at least one choice.
func (it *Item) SetInputTypeRadio(resp *ResponseOption) error {
	return it.setChoices(InputRadio, resp)
}

// SetInputTypeSelect configures a dropdown choice answer.
func (it *Item) SetInputTypeSelect(resp *ResponseOption) error {
	return it.setChoices(InputSelect, resp)
}

// SetInputTypeSlider configures a slider answer over the given choices.
func (it *Item) SetInputTypeSlider(resp *ResponseOption) error {
	return it.setChoices(InputSlider, resp)
}

func (it *Item) setFreeText(inputType, valueType string, maxLength int) {
	it.inputType = inputType
	resp := NewResponseOption(it.lang)
	resp.SetValueType(valueType)
	if maxLength > 0 {
		resp.SetMaxLength(maxLength)
	}
	it.response = resp
}

func (it *Item) setChoices(inputType string, resp *ResponseOption) error {
	if resp == nil || len(resp.choices) == 0 {
		return fmt.Errorf("%w: input type %q requires at least one choice", ErrConfig, inputType)
	}
	it.inputType = inputType
	it.response = resp
	return nil
}

// Document projects the item into its canonical ordered document.
func (it *Item) Document() *Document {
	doc := it.baseDocument()
	if it.skippable {
		ui := NewDocument()
		ui.Set("allow", []any{AllowSkipped})
		doc.Set("ui", ui.Reorder(itemUIOrder))
	}
	doc.Set("inputType", it.inputType)
	doc.Set("question", it.question.Copy())
	if it.response != nil {
		doc.Set("responseOptions", it.response.Document())
	}
	if it.readonly != nil {
		doc.Set("readonlyValue", *it.readonly)
	}
	return it.finalize(doc)
}

// Write persists the item document to dir, defaulting to the configured
// output directory.
func (it *Item) Write(dir string) error {
	return it.write(it.Document(), dir)
}

// ItemFromDocument parses data into an item. The @type tag must be present
// and equal reproschema:Field.
func ItemFromDocument(doc *Document) (*Item, error) {
	if err := checkType(doc, TypeField); err != nil {
		return nil, err
	}
	it, err := NewItem(Options{})
	if err != nil {
		return nil, err
	}
	it.response = nil
	if err := it.applyDocument(doc); err != nil {
		return nil, err
	}
	if err := applyString(doc, "inputType", &it.inputType); err != nil {
		return nil, err
	}
	if err := applyLangMap(doc, "question", it.lang, &it.question); err != nil {
		return nil, err
	}
	if v, ok := doc.Get("responseOptions"); ok {
		rd, ok := v.(*Document)
		if !ok {
			return nil, fmt.Errorf("%w: responseOptions must be a mapping, got %T", ErrValidation, v)
		}
		resp, err := ResponseOptionFromDocument(rd, it.lang)
		if err != nil {
			return nil, err
		}
		it.response = resp
	}
	if v, ok := doc.Get("readonlyValue"); ok {
		flag, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: readonlyValue must be a boolean, got %T", ErrValidation, v)
		}
		it.readonly = &flag
	}
	if v, ok := doc.Get("ui"); ok {
		ud, ok := v.(*Document)
		if !ok {
			return nil, fmt.Errorf("%w: ui must be a mapping, got %T", ErrValidation, v)
		}
		if allow, ok := ud.Get("allow"); ok {
			list, err := asStringSlice(allow, "ui.allow")
			if err != nil {
				return nil, err
			}
			it.skippable = false
			for _, a := range list {
				if a == AllowSkipped {
					it.skippable = true
				}
			}
		}
	} else {
		it.skippable = false
	}
	return it, nil
}

// ItemFromFile reads a JSON document from path and parses it as an item.
func ItemFromFile(path string) (*Item, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return ItemFromDocument(doc)
}
