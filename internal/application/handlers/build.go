// Package handlers contains application-layer handlers wiring the schema
// model to parsers, the registry and the CLI.
package handlers

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/reproforge/reproschema/internal/domain/schemas"
	"github.com/reproforge/reproschema/internal/domain/services"
	"github.com/reproforge/reproschema/internal/infrastructure/config"
	"github.com/reproforge/reproschema/internal/infrastructure/parsers"
)

// Directory layout of a generated schema tree, relative to the output root.
// Protocols reference activities as ../activities/<file>; activities
// reference items as items/<file>.
const (
	protocolsDir  = "protocols"
	activitiesDir = "activities"
	itemsDir      = "items"
)

// BuildHandler compiles a parsed definition into a tree of schema files and
// catalogues each written file.
type BuildHandler struct {
	library *services.LibraryService
	cfg     *config.Config
}

// NewBuildHandler creates a new BuildHandler.
func NewBuildHandler(library *services.LibraryService, cfg *config.Config) *BuildHandler {
	return &BuildHandler{library: library, cfg: cfg}
}

// BuildResult reports what a build produced.
type BuildResult struct {
	ProtocolFile string   `json:"protocol_file"`
	Files        []string `json:"files"` // all written files, relative to the output root
}

// HandleBuild compiles def into schema files under outputRoot and registers
// every written file. Files land in protocols/, activities/ and
// activities/items/ so that the serialized cross-references stay relative.
func (h *BuildHandler) HandleBuild(ctx context.Context, def *parsers.Definition, outputRoot string) (*BuildResult, error) {
	result := &BuildResult{}

	protocol, err := schemas.NewProtocol(h.baseOptions(def.Protocol.Name, def.Protocol.Description, def.Protocol.Preamble, def.Protocol.Citation, protocolsDir))
	if err != nil {
		return nil, fmt.Errorf("building protocol %q: %w", def.Protocol.Name, err)
	}
	if def.Protocol.LandingPage != "" {
		protocol.SetLandingPage(def.Protocol.LandingPage)
	}

	for _, activityDef := range def.Protocol.Activities {
		activity, err := h.buildActivity(ctx, activityDef, outputRoot, result)
		if err != nil {
			return nil, err
		}
		protocol.AppendActivity(activity)
	}

	if err := protocol.Write(filepath.Join(outputRoot, protocolsDir)); err != nil {
		return nil, fmt.Errorf("writing protocol %q: %w", def.Protocol.Name, err)
	}
	relPath := path.Join(protocolsDir, protocol.Filename())
	if err := h.register(ctx, protocol.Name(), schemas.TypeProtocol, relPath); err != nil {
		return nil, err
	}
	result.ProtocolFile = relPath
	result.Files = append(result.Files, relPath)

	return result, nil
}

func (h *BuildHandler) buildActivity(ctx context.Context, def parsers.ActivityDef, outputRoot string, result *BuildResult) (*schemas.Activity, error) {
	// The output dir doubles as the reference path: relative to the
	// protocol's location in protocols/.
	activity, err := schemas.NewActivity(h.baseOptions(def.Name, def.Description, def.Preamble, def.Citation, "../"+activitiesDir))
	if err != nil {
		return nil, fmt.Errorf("building activity %q: %w", def.Name, err)
	}

	for _, itemDef := range def.Items {
		item, err := h.buildItem(itemDef)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", def.Name, err)
		}
		activity.AppendItem(item)

		if err := item.Write(filepath.Join(outputRoot, activitiesDir, itemsDir)); err != nil {
			return nil, fmt.Errorf("writing item %q: %w", itemDef.Name, err)
		}
		relPath := path.Join(activitiesDir, itemsDir, item.Filename())
		if err := h.register(ctx, item.Name(), schemas.TypeField, relPath); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, relPath)
	}

	if err := activity.Write(filepath.Join(outputRoot, activitiesDir)); err != nil {
		return nil, fmt.Errorf("writing activity %q: %w", def.Name, err)
	}
	relPath := path.Join(activitiesDir, activity.Filename())
	if err := h.register(ctx, activity.Name(), schemas.TypeActivity, relPath); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, relPath)

	return activity, nil
}

func (h *BuildHandler) buildItem(def parsers.ItemDef) (*schemas.Item, error) {
	opts := h.baseOptions(def.Name, "", "", "", itemsDir)
	if def.Required {
		required := true
		opts.Required = &required
	}

	item, err := schemas.NewItem(opts)
	if err != nil {
		return nil, fmt.Errorf("building item %q: %w", def.Name, err)
	}
	if def.Question != "" {
		item.SetQuestion(def.Question)
	}

	if err := applyInputType(item, def, h.cfg.Language); err != nil {
		return nil, err
	}

	if def.ReadOnly {
		item.SetReadOnly(true)
		if def.Question == "" {
			item.Unset("question")
		}
	}
	return item, nil
}

// applyInputType maps a definition input type onto the matching item
// preset.
func applyInputType(item *schemas.Item, def parsers.ItemDef, lang string) error {
	switch def.InputType {
	case "", schemas.InputText:
		item.SetInputTypeText(def.MaxLength)
	case schemas.InputMultitext:
		item.SetInputTypeMultitext(def.MaxLength)
	case schemas.InputEmail:
		item.SetInputTypeEmail()
	case schemas.InputID, "participant_id":
		item.SetInputTypeParticipantID()
	case schemas.InputDate:
		item.SetInputTypeDate()
	case schemas.InputTimeRange, "time_range":
		item.SetInputTypeTimeRange()
	case schemas.InputYear:
		item.SetInputTypeYear()
	case schemas.InputLanguage, "language":
		item.SetInputTypeLanguage()
	case schemas.InputCountry, "country":
		item.SetInputTypeCountry()
	case schemas.InputState, "state":
		item.SetInputTypeState()
	case schemas.InputFloat:
		item.SetInputTypeFloat()
	case schemas.InputInteger, "integer":
		item.SetInputTypeInteger()
	case schemas.InputRadio, schemas.InputSelect, schemas.InputSlider:
		resp := schemas.NewResponseOption(lang)
		for _, choice := range def.Choices {
			resp.AddChoice(choice.Label, choice.Value)
		}
		if def.MultipleChoice {
			resp.SetMultipleChoice(true)
		}
		if def.DeriveBounds {
			resp.DeriveBounds()
		}
		switch def.InputType {
		case schemas.InputRadio:
			return item.SetInputTypeRadio(resp)
		case schemas.InputSelect:
			return item.SetInputTypeSelect(resp)
		default:
			return item.SetInputTypeSlider(resp)
		}
	default:
		return fmt.Errorf("%w: unknown input type %q for item %q", schemas.ErrConfig, def.InputType, def.Name)
	}
	return nil
}

func (h *BuildHandler) baseOptions(name, description, preamble, citation, outputDir string) schemas.Options {
	return schemas.Options{
		Name:          name,
		Description:   description,
		Preamble:      preamble,
		Citation:      citation,
		OutputDir:     outputDir,
		Language:      h.cfg.Language,
		SchemaVersion: h.cfg.SchemaVersion,
		Version:       h.cfg.Version,
		Org:           h.cfg.Context.Org,
		Repo:          h.cfg.Context.Repo,
		ContextURL:    h.cfg.Context.URL,
	}
}

func (h *BuildHandler) register(ctx context.Context, name string, typ schemas.Type, relPath string) error {
	if h.library == nil {
		return nil
	}
	if _, err := h.library.Register(ctx, name, typ, relPath, h.cfg.SchemaVersion); err != nil {
		return err
	}
	return nil
}
