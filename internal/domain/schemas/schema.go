// Package schemas contains the questionnaire schema object model: protocols,
// activities, items and response options, and their serialization to JSON-LD
// documents with a fixed, variant-specific key order.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Type is the @type discriminator of a schema document.
type Type string

// Supported type tags.
const (
	TypeProtocol       Type = "reproschema:Protocol"
	TypeActivity       Type = "reproschema:Activity"
	TypeField          Type = "reproschema:Field"
	TypeResponseOption Type = "reproschema:ResponseOption"
)

// Valid reports whether t is one of the supported type tags.
func (t Type) Valid() bool {
	switch t {
	case TypeProtocol, TypeActivity, TypeField, TypeResponseOption:
		return true
	}
	return false
}

// Defaults applied when the corresponding Options field is unset.
const (
	DefaultLanguage      = "en"
	DefaultSchemaVersion = "1.0.0-rc4"
	DefaultVersion       = "0.0.1"
	DefaultSuffix        = "_schema"
	DefaultExt           = ".jsonld"
	DefaultOrg           = "ReproNim"
	DefaultRepo          = "reproschema"
)

// Allowance IRIs emitted in ui.allow lists.
const (
	AllowSkipped  = "reproschema:Skipped"
	AllowDontKnow = "reproschema:DontKnow"
)

// commonOrder is the key order shared by every variant. Variants append
// their trailing keys to a copy of this list.
var commonOrder = []string{
	"@context",
	"@type",
	"@id",
	"schemaVersion",
	"version",
	"prefLabel",
	"altLabel",
	"description",
	"preamble",
	"image",
	"ui",
}

// ComputeRule links a score variable to the expression that computes it.
type ComputeRule struct {
	Variable   string
	Expression string
}

// Options configures a new entity. Every field is optional; zero values fall
// back to the documented defaults. Boolean fields whose default is true use
// pointers so that an explicit false survives defaulting.
type Options struct {
	Name          string  // base name, default depends on the variant
	SchemaVersion string  // default DefaultSchemaVersion
	Version       string  // default DefaultVersion
	ContextURL    string  // default built from Org/Repo/SchemaVersion
	Org           string  // default DefaultOrg
	Repo          string  // default DefaultRepo
	PrefLabel     string  // default derived from Name
	AltLabel      LangMap
	Description   string // default derived from Name
	Preamble      string
	Citation      string
	Image         any    // string or language map
	Suffix        string // default DefaultSuffix
	Ext           string // default DefaultExt
	OutputDir     string
	Language      string // default DefaultLanguage
	Visible       *bool  // default true
	Required      *bool  // default false
	Skippable     *bool  // default true
	Limit         string
}

// Base carries the attributes shared by every entity variant. Attributes are
// the source of truth; the serializable document is derived on demand by
// Document(), never kept in sync by hand.
type Base struct {
	typ           Type
	name          string // sanitized base name, underscores for spaces
	id            string // name + suffix + ext
	uri           string
	context       string
	schemaVersion string
	version       string
	prefLabel     LangMap
	labelDerived  bool // prefLabel was auto-derived from the name
	altLabel      LangMap
	description   string
	preamble      LangMap
	citation      string
	image         any
	landingPage   *Document
	visible       bool
	required      bool
	skippable     bool
	limit         string
	randomDelay   string
	schedule      string
	compute       []ComputeRule
	lang          string
	suffix        string
	ext           string
	outputDir     string
	order         []string
	unset         map[string]struct{}
}

// newBase validates opts and builds the shared attribute set for a variant.
func newBase(typ Type, defaultName string, order []string, opts Options) (Base, error) {
	if !typ.Valid() {
		return Base{}, fmt.Errorf("%w: unsupported type tag %q", ErrValidation, typ)
	}
	if err := validateImage(opts.Image); err != nil {
		return Base{}, err
	}

	name := opts.Name
	if name == "" {
		name = defaultName
	}
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	schemaVersion := opts.SchemaVersion
	if schemaVersion == "" {
		schemaVersion = DefaultSchemaVersion
	}
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := opts.Ext
	if ext == "" {
		ext = DefaultExt
	}
	org := opts.Org
	if org == "" {
		org = DefaultOrg
	}
	repo := opts.Repo
	if repo == "" {
		repo = DefaultRepo
	}
	context := opts.ContextURL
	if context == "" {
		context = ContextURL(org, repo, schemaVersion)
	}

	b := Base{
		typ:           typ,
		context:       context,
		schemaVersion: schemaVersion,
		version:       version,
		altLabel:      opts.AltLabel.Copy(),
		description:   opts.Description,
		citation:      opts.Citation,
		image:         opts.Image,
		visible:       boolOrDefault(opts.Visible, true),
		required:      boolOrDefault(opts.Required, false),
		skippable:     boolOrDefault(opts.Skippable, true),
		limit:         opts.Limit,
		lang:          lang,
		suffix:        suffix,
		ext:           ext,
		outputDir:     opts.OutputDir,
		order:         order,
		unset:         make(map[string]struct{}),
	}
	b.SetFilename(name)

	readable := strings.ReplaceAll(b.name, "_", " ")
	if opts.PrefLabel != "" {
		b.prefLabel = LangMap{lang: opts.PrefLabel}
	} else {
		b.prefLabel = LangMap{lang: readable}
		b.labelDerived = true
	}
	if b.description == "" {
		b.description = readable
	}
	if opts.Preamble != "" {
		b.preamble = LangMap{lang: opts.Preamble}
	}
	return b, nil
}

// ContextURL builds the raw-content URL of the generic context document for
// the given repository and schema version.
func ContextURL(org, repo, schemaVersion string) string {
	return "https://raw.githubusercontent.com/" + org + "/" + repo + "/" + schemaVersion + "/contexts/generic"
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func validateImage(v any) error {
	switch v.(type) {
	case nil, string, LangMap, map[string]string, map[string]any, *Document:
		return nil
	}
	return fmt.Errorf("%w: image must be a string or mapping, got %T", ErrValidation, v)
}

// Accessors.

// Type returns the entity's type tag, fixed at construction.
func (b *Base) Type() Type { return b.typ }

// Name returns the sanitized base name without suffix or extension.
func (b *Base) Name() string { return b.name }

// Filename returns the output file name, name + suffix + extension.
func (b *Base) Filename() string { return b.id }

// URI returns the configured output directory joined with the filename.
func (b *Base) URI() string { return b.uri }

// Language returns the default language code for localized text.
func (b *Base) Language() string { return b.lang }

// PrefLabel returns the preferred label map.
func (b *Base) PrefLabel() LangMap { return b.prefLabel.Copy() }

// Description returns the description text.
func (b *Base) Description() string { return b.description }

// Visible reports whether the entity is shown by default.
func (b *Base) Visible() bool { return b.visible }

// Required reports whether a response is mandatory.
func (b *Base) Required() bool { return b.required }

// Skippable reports whether the entity may be skipped.
func (b *Base) Skippable() bool { return b.skippable }

// Setters. None of them touches a serialized structure; Document() projects
// the attributes when a caller actually serializes.

// SetContext overrides the @context URL.
func (b *Base) SetContext(url string) { b.context = url }

// SetDescription replaces the description text.
func (b *Base) SetDescription(text string) { b.description = text }

// SetCitation replaces the citation.
func (b *Base) SetCitation(citation string) { b.citation = citation }

// SetImage replaces the image, a URL string or a language map.
func (b *Base) SetImage(image any) error {
	if err := validateImage(image); err != nil {
		return err
	}
	b.image = image
	return nil
}

// SetPreamble sets the preamble text for lang, defaulting to the entity's
// configured language.
func (b *Base) SetPreamble(text string, lang ...string) {
	if b.preamble == nil {
		b.preamble = LangMap{}
	}
	b.preamble[b.langOrDefault(lang)] = text
}

// SetPrefLabel sets the preferred label for lang. An empty label re-derives
// the label from the name, but only while the current label is still the
// auto-derived one; a customized label is never overwritten by the empty
// form.
func (b *Base) SetPrefLabel(label string, lang ...string) {
	if label == "" {
		if b.labelDerived || len(b.prefLabel) == 0 {
			b.prefLabel = LangMap{b.lang: strings.ReplaceAll(b.name, "_", " ")}
			b.labelDerived = true
		}
		return
	}
	if b.prefLabel == nil || b.labelDerived {
		b.prefLabel = LangMap{}
	}
	b.prefLabel[b.langOrDefault(lang)] = label
	b.labelDerived = false
}

// SetAltLabel sets the alternate label for lang.
func (b *Base) SetAltLabel(label string, lang ...string) {
	if b.altLabel == nil {
		b.altLabel = LangMap{}
	}
	b.altLabel[b.langOrDefault(lang)] = label
}

// SetLandingPage points the entity at a landing page document.
func (b *Base) SetLandingPage(url string, lang ...string) {
	page := NewDocument()
	page.Set("@id", url)
	page.Set("inLanguage", b.langOrDefault(lang))
	b.landingPage = page
}

// AddComputeRule appends a {variableName, jsExpression} pair to the compute
// list. Order of insertion is preserved in output.
func (b *Base) AddComputeRule(variable, expression string) {
	b.compute = append(b.compute, ComputeRule{Variable: variable, Expression: expression})
}

// SetLimit sets the scheduling limit consumed by a parent's ui entry.
func (b *Base) SetLimit(limit string) { b.limit = limit }

// SetRandomMaxDelay sets the scheduling random delay bound.
func (b *Base) SetRandomMaxDelay(delay string) { b.randomDelay = delay }

// SetSchedule sets the scheduling expression.
func (b *Base) SetSchedule(schedule string) { b.schedule = schedule }

// SetVisible toggles default visibility.
func (b *Base) SetVisible(visible bool) { b.visible = visible }

// SetRequired toggles whether a response is mandatory.
func (b *Base) SetRequired(required bool) { b.required = required }

// SetSkippable toggles whether the entity may be skipped.
func (b *Base) SetSkippable(skippable bool) { b.skippable = skippable }

// SetFilename recomputes the entity's id from name, or from the current name
// when name is empty. Any existing suffix and extension are stripped before
// the configured ones are re-appended, so repeated calls with the same base
// name are idempotent. The URI is recomputed from the output directory.
func (b *Base) SetFilename(name string) {
	if name == "" {
		name = b.name
	}
	b.name = sanitizeName(name, b.suffix, b.ext)
	b.id = b.name + b.suffix + b.ext
	b.uri = path.Join(b.outputDir, b.id)
}

// SetOutputDir changes the configured output directory and recomputes the
// URI.
func (b *Base) SetOutputDir(dir string) {
	b.outputDir = dir
	b.uri = path.Join(b.outputDir, b.id)
}

// Unset suppresses the given keys from serialized output. Used for items
// whose preset removes keys, such as read-only scores without a question.
func (b *Base) Unset(keys ...string) {
	for _, key := range keys {
		b.unset[key] = struct{}{}
	}
}

// sanitizeName strips a pre-existing suffix and extension from name and
// replaces spaces with underscores.
func sanitizeName(name, suffix, ext string) string {
	name = strings.TrimSuffix(name, ext)
	name = strings.TrimSuffix(name, suffix)
	return strings.ReplaceAll(name, " ", "_")
}

func (b *Base) langOrDefault(lang []string) string {
	if len(lang) > 0 && lang[0] != "" {
		return lang[0]
	}
	return b.lang
}

// baseDocument projects the shared attributes into an unordered document.
// Variants add their trailing keys before finalize canonicalizes the result.
func (b *Base) baseDocument() *Document {
	doc := NewDocument()
	doc.Set("@context", b.context)
	doc.Set("@type", string(b.typ))
	doc.Set("@id", b.id)
	doc.Set("schemaVersion", b.schemaVersion)
	doc.Set("version", b.version)
	doc.Set("prefLabel", b.prefLabel.Copy())
	doc.Set("altLabel", b.altLabel.Copy())
	doc.Set("description", b.description)
	doc.Set("preamble", b.preamble.Copy())
	doc.Set("image", b.image)
	doc.Set("landingPage", b.landingPage)
	doc.Set("citation", b.citation)
	if len(b.compute) > 0 {
		rules := make([]any, 0, len(b.compute))
		for _, rule := range b.compute {
			rd := NewDocument()
			rd.Set("variableName", rule.Variable)
			rd.Set("jsExpression", rule.Expression)
			rules = append(rules, rd)
		}
		doc.Set("compute", rules)
	}
	return doc
}

// finalize canonicalizes key order, applies unset suppression and drops
// empty values.
func (b *Base) finalize(doc *Document) *Document {
	doc = doc.Reorder(b.order)
	for key := range b.unset {
		doc.Delete(key)
	}
	return doc.Prune()
}

// write persists doc as 4-space-indented JSON to dir, defaulting to the
// entity's configured output directory. The directory is created if absent.
func (b *Base) write(doc *Document, dir string) error {
	if dir == "" {
		dir = b.outputDir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	target := filepath.Join(dir, b.id)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("writing schema file: %w", err)
	}
	return nil
}

// checkType verifies the @type tag of a loaded document against the variant
// the caller expects.
func checkType(doc *Document, want Type) error {
	raw, ok := doc.Get("@type")
	if !ok {
		return fmt.Errorf("%w: missing @type key", ErrValidation)
	}
	tag, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: @type must be a string, got %T", ErrValidation, raw)
	}
	if Type(tag) != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, want, tag)
	}
	return nil
}

// applyDocument parses the shared keys of a loaded document back into the
// attribute set, making loaded entities behave exactly like constructed
// ones: setters compose and re-serialization is stable.
func (b *Base) applyDocument(doc *Document) error {
	if v, ok := doc.Get("@context"); ok {
		url, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: @context must be a string, got %T", ErrValidation, v)
		}
		b.context = url
	}
	if v, ok := doc.Get("@id"); ok {
		id, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: @id must be a string, got %T", ErrValidation, v)
		}
		b.SetFilename(id)
	}
	if err := applyString(doc, "schemaVersion", &b.schemaVersion); err != nil {
		return err
	}
	if err := applyString(doc, "version", &b.version); err != nil {
		return err
	}
	if err := applyString(doc, "description", &b.description); err != nil {
		return err
	}
	if err := applyString(doc, "citation", &b.citation); err != nil {
		return err
	}
	if err := applyLangMap(doc, "prefLabel", b.lang, &b.prefLabel); err != nil {
		return err
	}
	b.labelDerived = false
	if err := applyLangMap(doc, "altLabel", b.lang, &b.altLabel); err != nil {
		return err
	}
	if err := applyLangMap(doc, "preamble", b.lang, &b.preamble); err != nil {
		return err
	}
	if v, ok := doc.Get("image"); ok {
		if err := validateImage(v); err != nil {
			return err
		}
		b.image = v
	}
	if v, ok := doc.Get("landingPage"); ok {
		page, ok := v.(*Document)
		if !ok {
			return fmt.Errorf("%w: landingPage must be a mapping, got %T", ErrValidation, v)
		}
		b.landingPage = page
	}
	if v, ok := doc.Get("compute"); ok {
		rules, err := parseComputeRules(v)
		if err != nil {
			return err
		}
		b.compute = rules
	}
	return nil
}

func applyString(doc *Document, key string, dst *string) error {
	v, ok := doc.Get(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string, got %T", ErrValidation, key, v)
	}
	*dst = s
	return nil
}

func applyLangMap(doc *Document, key, defaultLang string, dst *LangMap) error {
	v, ok := doc.Get(key)
	if !ok {
		return nil
	}
	m, err := asLangMap(v, defaultLang)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = m
	return nil
}

func parseComputeRules(v any) ([]ComputeRule, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: compute must be a sequence, got %T", ErrValidation, v)
	}
	rules := make([]ComputeRule, 0, len(list))
	for _, entry := range list {
		ed, ok := entry.(*Document)
		if !ok {
			return nil, fmt.Errorf("%w: compute entry must be a mapping, got %T", ErrValidation, entry)
		}
		var rule ComputeRule
		if err := applyString(ed, "variableName", &rule.Variable); err != nil {
			return nil, err
		}
		if err := applyString(ed, "jsExpression", &rule.Expression); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// readDocument loads a JSON document from path and checks for an @type key.
func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}
	if _, ok := doc.Get("@type"); !ok {
		return nil, fmt.Errorf("%w: missing @type key in %s", ErrValidation, path)
	}
	return doc, nil
}
