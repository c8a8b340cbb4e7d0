package schemas

import "fmt"

// protocolOrder is the canonical top-level key order of a protocol
// document. landingPage slots in after preamble; messages trail compute.
var protocolOrder = []string{
	"@context",
	"@type",
	"@id",
	"schemaVersion",
	"version",
	"prefLabel",
	"altLabel",
	"description",
	"preamble",
	"landingPage",
	"image",
	"ui",
	"citation",
	"compute",
	"messages",
}

// messageOrder is the canonical key order of one conditional message.
var messageOrder = []string{"jsExpression", "message"}

// Message is a conditional display rule: when jsExpression evaluates true,
// message is shown.
type Message struct {
	Expression string
	Message    string
}

// Protocol is the top-level entity grouping an ordered list of activities.
type Protocol struct {
	Base
	ui       *UI
	messages []Message
}

// NewProtocol builds a protocol from opts. The name defaults to "protocol".
func NewProtocol(opts Options) (*Protocol, error) {
	base, err := newBase(TypeProtocol, "protocol", protocolOrder, opts)
	if err != nil {
		return nil, err
	}
	return &Protocol{Base: base, ui: NewUI()}, nil
}

// UI returns the embedded presentation sub-document.
func (p *Protocol) UI() *UI { return p.ui }

// Messages returns the conditional display rules in order.
func (p *Protocol) Messages() []Message {
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// AddMessage appends a conditional display rule.
func (p *Protocol) AddMessage(expression, message string) {
	p.messages = append(p.messages, Message{Expression: expression, Message: message})
}

// AppendActivity records activity at the end of the protocol's order. The
// reference is the activity's URI, which callers keep relative to the
// protocol's own location. Duplicate appends create duplicate entries.
func (p *Protocol) AppendActivity(activity *Activity) {
	p.ui.Append(entryFor(&activity.Base, activity.URI()))
}

// Document projects the protocol into its canonical ordered document.
func (p *Protocol) Document() *Document {
	doc := p.baseDocument()
	doc.Set("ui", p.ui.Document(uiOrder))
	if len(p.messages) > 0 {
		msgs := make([]any, 0, len(p.messages))
		for _, msg := range p.messages {
			md := NewDocument()
			md.Set("jsExpression", msg.Expression)
			md.Set("message", msg.Message)
			msgs = append(msgs, md.Reorder(messageOrder))
		}
		doc.Set("messages", msgs)
	}
	return p.finalize(doc)
}

// Write persists the protocol document to dir, defaulting to the configured
// output directory.
func (p *Protocol) Write(dir string) error {
	return p.write(p.Document(), dir)
}

// ProtocolFromDocument parses data into a protocol. The @type tag must be
// present and equal reproschema:Protocol.
func ProtocolFromDocument(doc *Document) (*Protocol, error) {
	if err := checkType(doc, TypeProtocol); err != nil {
		return nil, err
	}
	p, err := NewProtocol(Options{})
	if err != nil {
		return nil, err
	}
	if err := p.applyDocument(doc); err != nil {
		return nil, err
	}
	if v, ok := doc.Get("ui"); ok {
		ud, ok := v.(*Document)
		if !ok {
			return nil, fmt.Errorf("%w: ui must be a mapping, got %T", ErrValidation, v)
		}
		ui, err := uiFromDocument(ud, p.lang)
		if err != nil {
			return nil, err
		}
		p.ui = ui
	}
	if v, ok := doc.Get("messages"); ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: messages must be a sequence, got %T", ErrValidation, v)
		}
		for _, raw := range list {
			md, ok := raw.(*Document)
			if !ok {
				return nil, fmt.Errorf("%w: message must be a mapping, got %T", ErrValidation, raw)
			}
			var msg Message
			if err := applyString(md, "jsExpression", &msg.Expression); err != nil {
				return nil, err
			}
			if err := applyString(md, "message", &msg.Message); err != nil {
				return nil, err
			}
			p.messages = append(p.messages, msg)
		}
	}
	return p, nil
}

// ProtocolFromFile reads a JSON document from path and parses it as a
// protocol.
func ProtocolFromFile(path string) (*Protocol, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return ProtocolFromDocument(doc)
}
