package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/persist"
	"github.com/felixgeelhaar/stepper/internal/domain/schema"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// Flow is a compiled definition document.
type Flow struct {
	Document   *Document
	Definition *stepper.Definition
	Mode       navigation.Mode
	TTL        time.Duration
	Codec      persist.Codec
}

// Compile validates doc and builds its stepper definition. Every problem
// found is reported, as an *ErrorList when there is more than one.
func Compile(doc *Document) (*Flow, error) {
	errs := NewErrorList()
	flow := &Flow{Document: doc, Mode: navigation.ModeFree, Codec: persist.JSONCodec{}}

	checkAPIVersion(doc.APIVersion, errs)

	if doc.Name == "" {
		errs.Addf("name", "Give the stepper a name, for example name: checkout.", "name is required")
	}

	if doc.Mode != "" {
		flow.Mode = navigation.Mode(strings.ToLower(doc.Mode))
		if !flow.Mode.Valid() {
			errs.Addf("mode", "Use mode: free or mode: linear.", "unknown mode %q", doc.Mode)
		}
	}

	if doc.MaxHistory < 0 {
		errs.Addf("maxHistory", "Use 0 for unbounded history.", "maxHistory must not be negative")
	}

	if doc.Persist.TTL != "" {
		ttl, err := time.ParseDuration(doc.Persist.TTL)
		switch {
		case err != nil:
			errs.Addf("persist.ttl", "Use a Go duration such as 30m or 24h.", "invalid ttl %q", doc.Persist.TTL)
		case ttl < 0:
			errs.Addf("persist.ttl", "Use a positive duration, or omit ttl to keep snapshots forever.", "ttl must not be negative")
		default:
			flow.TTL = ttl
		}
	}

	codec, err := persist.CodecFor(doc.Persist.Format)
	if err != nil {
		errs.Addf("persist.format", "Use json, yaml or toml.", "%s", err.Error())
	} else {
		flow.Codec = codec
	}

	steps := compileSteps(doc, errs)

	if doc.InitialStep != "" && !hasStep(doc, doc.InitialStep) {
		errs.Add(NewStepError("initialStep", step.NotFoundError(doc.InitialStep)))
	}

	if errs.HasErrors() {
		return nil, errs.AsError()
	}

	def, err := stepper.Define(steps...)
	if err != nil {
		return nil, NewStepError("steps", err)
	}
	flow.Definition = def

	return flow, nil
}

// Name returns the stepper name.
func (f *Flow) Name() string {
	return f.Document.Name
}

// Options returns the handle options the document configures.
func (f *Flow) Options() []stepper.Option {
	return []stepper.Option{
		stepper.WithMode(f.Mode),
		stepper.WithInitialStep(f.Document.InitialStep),
		stepper.WithMaxHistory(f.Document.MaxHistory),
	}
}

// StorageKey returns the snapshot key for session.
func (f *Flow) StorageKey(session string) string {
	key := f.Document.Persist.Key
	if key == "" {
		key = f.Document.Name
	}
	return key + ":" + session
}

// Persistence builds the snapshot manager for session on storage.
func (f *Flow) Persistence(storage ports.Storage, session string, logger ports.Logger) (*persist.Manager, error) {
	return persist.NewManager(persist.Config{
		Key:     f.StorageKey(session),
		Storage: storage,
		TTL:     f.TTL,
		Codec:   f.Codec,
		Logger:  logger,
	})
}

func checkAPIVersion(version string, errs *ErrorList) {
	if version == "" {
		errs.Addf("apiVersion", fmt.Sprintf("Add apiVersion: %s at the top of the file.", SupportedAPIVersion), "apiVersion is required")
		return
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Major(v) != SupportedAPIVersion {
		errs.Add(NewUnsupportedVersionError(version))
	}
}

func compileSteps(doc *Document, errs *ErrorList) []step.Step {
	if len(doc.Steps) == 0 {
		errs.Add(NewStepError("steps", step.ErrEmptyRegistry))
		return nil
	}

	title := cases.Title(language.English)
	seen := make(map[string]bool, len(doc.Steps))
	steps := make([]step.Step, 0, len(doc.Steps))

	for i, spec := range doc.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		if err := step.ValidateID(spec.ID); err != nil {
			errs.Add(NewStepError(field+".id", err))
			continue
		}
		if seen[spec.ID] {
			errs.Add(NewStepError(field+".id", fmt.Errorf("%w: %q", step.ErrDuplicateStep, spec.ID)))
			continue
		}
		seen[spec.ID] = true

		s := step.Step{
			ID:          spec.ID,
			Title:       spec.Title,
			Description: spec.Description,
			Icon:        spec.Icon,
			Requires:    spec.Requires,
			Data:        spec.Data,
		}
		if s.Title == "" {
			s.Title = title.String(strings.NewReplacer("-", " ", "_", " ").Replace(spec.ID))
		}

		for _, dep := range spec.Requires {
			if !hasStep(doc, dep) {
				errs.Add(NewStepError(field+".requires", fmt.Errorf("%w: %q", step.ErrMissingDependency, dep)))
			}
		}

		if spec.Schema != nil {
			compiled, err := schema.CompileJSON(spec.Schema)
			if err != nil {
				errs.Add(NewSchemaError(field+".schema", err))
			} else {
				s.Schema = compiled
			}
		}

		if spec.SkipWhen != nil {
			skip, err := compileSkip(doc, spec.SkipWhen)
			if err != nil {
				errs.Add(NewStepError(field+".skipWhen", err))
			} else {
				s.Skip = skip
			}
		}

		steps = append(steps, s)
	}

	return steps
}

// compileSkip compares JSON encodings so 1 in a YAML file equals the
// float64 1 held in metadata.
func compileSkip(doc *Document, spec *SkipSpec) (step.SkipFunc, error) {
	if !hasStep(doc, spec.Step) {
		return nil, step.NotFoundError(spec.Step)
	}
	want, err := json.Marshal(spec.Equals)
	if err != nil {
		return nil, fmt.Errorf("skipWhen.equals: %w", err)
	}

	return func(metadata step.Metadata) bool {
		value := metadata[spec.Step]
		if spec.Field != "" {
			entry, ok := value.(map[string]any)
			if !ok {
				return false
			}
			value = entry[spec.Field]
		}
		got, err := json.Marshal(value)
		if err != nil {
			return false
		}
		return bytes.Equal(got, want)
	}, nil
}

func hasStep(doc *Document, id string) bool {
	for _, s := range doc.Steps {
		if s.ID == id {
			return true
		}
	}
	return false
}
