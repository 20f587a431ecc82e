package datasource

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/provider"
	"github.com/quarrydb/quarry/pkg/schema/arguments"
	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

const (
	providerKey          = "provider"
	urlKey               = "url"
	shadowDatabaseURLKey = "shadowDatabaseUrl"
	previewFeaturesKey   = "previewFeatures"
)

// LoadOptions selects the URL resolution mode for a validation pass.
// IgnoreURLs takes priority over URLOverrides; with neither set the URL is
// resolved normally, including env() indirection.
type LoadOptions struct {
	// IgnoreURLs skips URL resolution entirely and substitutes a
	// placeholder of the form "<first-declared-provider>://". Values of
	// the wrong literal kind still fail.
	IgnoreURLs bool
	// URLOverrides replaces the URL of any datasource whose name appears
	// in the map. Overridden URLs record no environment variable.
	URLOverrides map[string]string
	// LookupEnv resolves env() indirection; defaults to os.LookupEnv.
	LookupEnv arguments.LookupEnv
}

// Loader validates datasource blocks against the provider registry.
type Loader struct {
	registry *provider.Registry
	logger   *zap.Logger
}

// NewLoader creates a loader over the given registry. A nil registry gets
// the builtin provider set.
func NewLoader(registry *provider.Registry) *Loader {
	if registry == nil {
		registry = provider.NewRegistry()
	}
	return &Loader{
		registry: registry,
		logger:   logger.With(zap.String("component", "datasource_loader")),
	}
}

// LoadFromSchema validates every datasource block in the schema. All
// per-block errors are collected; the pass succeeds only when none
// occurred, and warnings are reported either way. When more than one block
// validates successfully, every datasource block is additionally reported
// as an error, since only a single datasource is supported.
func (l *Loader) LoadFromSchema(schema *ast.Schema, opts LoadOptions) ([]*Datasource, diag.Diagnostics) {
	var sources []*Datasource
	diags := diag.New()

	for _, src := range schema.Sources {
		ds, srcDiags := l.lift(src, opts)
		if ds != nil {
			diags.AppendWarnings(srcDiags.Warnings)
			sources = append(sources, ds)
			continue
		}

		for _, err := range srcDiags.Errors {
			// A bare "argument missing" gains the owning block's name on
			// the way into the pass-level collector.
			if err.Kind == diag.KindArgumentNotFound {
				diags.PushError(diag.NewSourceArgumentNotFoundError(err.ArgumentName, src.Name, err.Span))
			} else {
				diags.PushError(err)
			}
		}
		diags.AppendWarnings(srcDiags.Warnings)
	}

	if len(sources) > 1 {
		for _, src := range schema.Sources {
			diags.PushError(diag.NewSourceValidationError(
				"You defined more than one datasource. This is not allowed yet because support for multiple databases has not been implemented yet.",
				src.Name,
				src.Span,
			))
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return sources, diags
}

// lift validates a single datasource block. On failure it returns a nil
// datasource and the collected diagnostics; warnings are carried in both
// cases.
func (l *Loader) lift(src *ast.SourceConfig, opts LoadOptions) (*Datasource, diag.Diagnostics) {
	diags := diag.New()
	args := arguments.New(src.Properties, src.Span, opts.LookupEnv)

	providerArg, argErr := args.Arg(providerKey)
	if argErr != nil {
		diags.PushError(*argErr)
		return nil, diags
	}

	// A provider identifier must be a literal, never computed from an
	// environment variable.
	if providerArg.IsFromEnv() {
		diags.PushError(diag.NewFunctionalEvaluationError(
			"A datasource must not use the env() function in the provider argument.",
			src.Span,
		))
		return nil, diags
	}

	providers, valErr := providerArg.AsStrArray()
	if valErr != nil {
		diags.PushError(*valErr)
		return nil, diags
	}

	if providerArg.IsArray() {
		diags.PushWarning(diag.NewDeprecatedProviderArrayWarning(providerArg.Span()))
	}

	if len(providers) == 0 {
		diags.PushError(diag.NewSourceValidationError(
			"The provider argument in a datasource must not be empty",
			src.Name,
			providerArg.Span(),
		))
		return nil, diags
	}

	urlArg, argErr := args.Arg(urlKey)
	if argErr != nil {
		diags.PushError(*argErr)
		return nil, diags
	}

	url, urlErr := l.resolveURL(urlArg, opts, src.Name, providers)
	if urlErr != nil {
		diags.PushError(*urlErr)
		return nil, diags
	}

	var shadowURL *StringFromEnvVar
	if shadowArg := args.OptionalArg(shadowDatabaseURLKey); shadowArg != nil {
		envVar, value, shadowErr := shadowArg.AsStrFromEnv()
		if shadowErr != nil {
			diags.PushError(*shadowErr)
			return nil, diags
		}
		// Absence is fine, emptiness when present is not.
		if emptyErr := validateURLNonEmpty(envVar, value, src.Name, shadowArg.Span()); emptyErr != nil {
			diags.PushError(*emptyErr)
			return nil, diags
		}
		shadowURL = &StringFromEnvVar{FromEnvVar: envVar, Value: value}
	}

	if guardErr := previewFeaturesGuardrail(args); guardErr != nil {
		diags.PushError(*guardErr)
		return nil, diags
	}

	var matched []provider.Descriptor
	for _, name := range providers {
		if d := l.registry.ForName(name); d != nil {
			matched = append(matched, d)
		}
	}

	if len(matched) == 0 {
		diags.PushError(diag.NewDatasourceProviderNotKnownError(
			strings.Join(providers, ","),
			providerArg.Span(),
		))
		return nil, diags
	}

	connectors := make([]*provider.Connector, 0, len(matched))
	for _, d := range matched {
		connectors = append(connectors, d.Connector())
	}
	combined := provider.Combine(connectors)

	// The first provider whose URL-shape check succeeds becomes active.
	// When none succeeds the first encountered error is reported, not an
	// aggregate; this tie-break keeps diagnostics deterministic.
	var active provider.Descriptor
	var firstURLErr *diag.DatamodelError
	for _, d := range matched {
		if err := d.CanHandleURL(src.Name, url.Value); err != nil {
			if firstURLErr == nil {
				e := diag.NewSourceValidationError(err.Error(), src.Name, urlArg.Span())
				firstURLErr = &e
			}
			continue
		}
		active = d
		break
	}

	if active == nil {
		diags.PushError(*firstURLErr)
		return nil, diags
	}

	return &Datasource{
		Name:              src.Name,
		Provider:          providers,
		ActiveProvider:    active.CanonicalName(),
		URL:               url,
		ShadowDatabaseURL: shadowURL,
		Documentation:     src.Documentation,
		CombinedConnector: combined,
		ActiveConnector:   active.Connector(),
	}, diags
}

// resolveURL applies the three URL resolution modes in priority order:
// ignore, override, normal.
func (l *Loader) resolveURL(urlArg *arguments.ValueValidator, opts LoadOptions, sourceName string, providers []string) (StringFromEnvVar, *diag.DatamodelError) {
	envVar, value, resErr := urlArg.AsStrFromEnv()
	override, hasOverride := opts.URLOverrides[sourceName]

	var urlEnvVar *string
	var url string

	switch {
	case opts.IgnoreURLs:
		// The bypass suppresses missing/empty checks only; a value of the
		// wrong literal kind still surfaces.
		if resErr != nil && resErr.Kind == diag.KindTypeMismatch && resErr.ExpectedType == "String" {
			return StringFromEnvVar{}, resErr
		}
		url = providers[0] + "://"
	case hasOverride:
		l.logger.Debug("overriding datasource url",
			zap.String("datasource", sourceName))
		url = override
	case resErr != nil:
		return StringFromEnvVar{}, resErr
	default:
		urlEnvVar = envVar
		url = strings.TrimSpace(value)
	}

	if emptyErr := validateURLNonEmpty(urlEnvVar, url, sourceName, urlArg.Span()); emptyErr != nil {
		return StringFromEnvVar{}, emptyErr
	}

	return StringFromEnvVar{FromEnvVar: urlEnvVar, Value: url}, nil
}

// previewFeaturesGuardrail rejects preview features declared on a
// datasource block; they belong to the generator block. An absent or empty
// declaration is accepted silently.
func previewFeaturesGuardrail(args *arguments.Arguments) *diag.DatamodelError {
	arg := args.OptionalArg(previewFeaturesKey)
	if arg == nil {
		return nil
	}

	features, err := arg.AsStrArray()
	if err != nil {
		return err
	}
	if len(features) == 0 {
		return nil
	}

	e := diag.NewConnectorError(
		"Preview features are only supported in the generator block. Please move this field to the generator block.",
		arg.Span(),
	)
	return &e
}

func validateURLNonEmpty(envVar *string, url, sourceName string, span ast.Span) *diag.DatamodelError {
	if url != "" {
		return nil
	}

	suffix := ""
	if envVar != nil {
		suffix = fmt.Sprintf(" The environment variable `%s` resolved to an empty string.", *envVar)
	}

	e := diag.NewSourceValidationError(
		fmt.Sprintf("You must provide a nonempty URL for the datasource `%s`.%s", sourceName, suffix),
		sourceName,
		span,
	)
	return &e
}
