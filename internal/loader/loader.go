package loader

import (
	"encoding/json"
	"fmt"

	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/validator"
	"github.com/flowcore/flowcore/pkg/flowerr"
)

// SupportedSchemaVersions is the current schema-version family accepted
// without migration, per spec §6.
var SupportedSchemaVersions = []string{"1.0.0", "1.0.1", "1.1.0"}

func isSupportedVersion(v string) bool {
	for _, s := range SupportedSchemaVersions {
		if s == v {
			return true
		}
	}
	return false
}

// Result is returned by Load on success: the domain Flow plus any
// non-fatal warnings the validator or the deprecation check produced.
type Result struct {
	Flow     flow.Flow
	Warnings []validator.Warning
}

// Load parses jsonText, builds the domain Flow, and runs the validator,
// following the pipeline in spec §4.1. On success it returns the Flow and
// any warnings; on failure it returns every independent error found in a
// single pass.
func Load(jsonText []byte) (Result, *flowerr.MultiError) {
	multi := &flowerr.MultiError{}

	var doc document
	if err := json.Unmarshal(jsonText, &doc); err != nil {
		multi.Add(flowerr.Wrap(flowerr.CodeInvalidJSON, "document is not valid JSON", err))
		return Result{}, multi
	}

	if len(doc.SchemaVersion) == 0 {
		multi.Add(flowerr.New(flowerr.CodeMissingSchemaVersion, "top-level \"schemaVersion\" field is required").WithPath("schemaVersion"))
	}
	var version string
	if len(doc.SchemaVersion) > 0 {
		if err := json.Unmarshal(doc.SchemaVersion, &version); err != nil {
			multi.Add(flowerr.Wrap(flowerr.CodeInvalidFlow, "\"schemaVersion\" must be a string", err).WithPath("schemaVersion"))
		}
	}

	if len(doc.Flow) == 0 {
		multi.Add(flowerr.New(flowerr.CodeMissingFlow, "top-level \"flow\" field is required").WithPath("flow"))
		return Result{}, multi
	}

	rawFlow := doc.Flow
	deprecated := false
	if version != "" && isDeprecatedVersion(version) {
		deprecated = true
		migrated, err := migrateFlowDoc(rawFlow)
		if err != nil {
			multi.Add(flowerr.Wrap(flowerr.CodeInvalidFlow, "failed to migrate deprecated schema", err).WithPath("flow"))
			return Result{}, multi
		}
		rawFlow = migrated
		version = migrationTargetVersion
	} else if version != "" && !isSupportedVersion(version) {
		multi.Add(flowerr.Newf(flowerr.CodeUnsupportedSchemaVersion, "unsupported schema version %q; supported versions: %v", version, SupportedSchemaVersions).WithPath("schemaVersion"))
		return Result{}, multi
	}

	var fd flowDoc
	if err := json.Unmarshal(rawFlow, &fd); err != nil {
		multi.Add(flowerr.Wrap(flowerr.CodeInvalidFlow, "\"flow\" is not a valid flow object", err).WithPath("flow"))
		return Result{}, multi
	}

	f, convErrs := convert(fd)
	multi.Errors = append(multi.Errors, convErrs...)
	if multi.HasErrors() {
		return Result{}, multi
	}

	valResult := validator.Validate(f)
	for _, e := range valResult.Errors {
		multi.Add(e)
	}
	if multi.HasErrors() {
		return Result{}, multi
	}

	warnings := valResult.Warnings
	if deprecated {
		warnings = append(warnings, validator.Warning{
			Code:    "DEPRECATED_SCHEMA_VERSION",
			Message: fmt.Sprintf("document used deprecated schema family 0.9.x; migrated to %s", migrationTargetVersion),
			Path:    "schemaVersion",
		})
	}

	return Result{Flow: f, Warnings: warnings}, nil
}

// Validate runs Load and reports only whether the document is acceptable,
// discarding the constructed Flow — it does the same work as Load, for
// callers that only need pass/fail plus diagnostics (e.g. a CLI `validate`
// subcommand).
func Validate(jsonText []byte) (bool, []validator.Warning, *flowerr.MultiError) {
	result, multi := Load(jsonText)
	if multi.HasErrors() {
		return false, nil, multi
	}
	return true, result.Warnings, nil
}

// SchemaVersion extracts the document's declared schema version without
// building or validating the Flow, returning ("", false) if absent or
// malformed.
func SchemaVersion(jsonText []byte) (string, bool) {
	var doc document
	if err := json.Unmarshal(jsonText, &doc); err != nil {
		return "", false
	}
	if len(doc.SchemaVersion) == 0 {
		return "", false
	}
	var version string
	if err := json.Unmarshal(doc.SchemaVersion, &version); err != nil {
		return "", false
	}
	return version, version != ""
}
