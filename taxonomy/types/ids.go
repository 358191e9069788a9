package types

import (
	"github.com/google/uuid"
)

// ID prefixes make identifiers self-describing in logs and review queues.
const (
	BehaviorIDPrefix = "BT"
	TaskIDPrefix     = "TT"
)

// NewLineageID generates the stable identity shared by all versions of a tag.
func NewLineageID(family Family) string {
	prefix := BehaviorIDPrefix
	if family == FamilyTask {
		prefix = TaskIDPrefix
	}
	return prefix + "-" + uuid.New().String()
}

// VersionID derives the identifier of one version of a lineage
// ("BT-<uuid>.v2"). Stage bindings and alias mappings reference version ids,
// so a tag edit (new version) never retroactively changes what a consumer
// resolved — the author re-binds explicitly.
func VersionID(lineageID string, version int) string {
	return lineageID + "." + FormatVersion(version)
}
