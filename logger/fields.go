package logger

import (
	"context"
)

// Standard field names for consistent structured logging across Compass.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and attribution
	FieldActor     = "actor"
	FieldRequestID = "request_id"

	// Components
	FieldComponent = "component"
	FieldCatalog   = "catalog"
	FieldRegistry  = "registry"

	// Taxonomy
	FieldTagID     = "tag_id"
	FieldLineageID = "lineage_id"
	FieldTagName   = "tag_name"
	FieldFamily    = "family"
	FieldDomain    = "domain"
	FieldCluster   = "cluster"
	FieldVersion   = "version"
	FieldStatus    = "status"
	FieldLevel     = "level"

	// Alias mappings
	FieldPosition   = "position"
	FieldTerm       = "term"
	FieldMappingID  = "mapping_id"
	FieldSource     = "source"
	FieldConfidence = "confidence"

	// Curriculum
	FieldMapID     = "map_id"
	FieldStageID   = "stage_id"
	FieldStageName = "stage_name"

	// Operations
	FieldOperation  = "operation"
	FieldTransition = "transition"

	// Errors and counts
	FieldError      = "error"
	FieldCount      = "count"
	FieldViolations = "violations"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	actorKey     contextKey = "logger_actor"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor adds an actor identity to the context for logging
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if ctx == nil {
		return fields
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		fields = append(fields, FieldActor, actor)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}
