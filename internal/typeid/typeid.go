package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser        = "user"
	PrefixProject     = "proj"
	PrefixSnapshot    = "snap"
	PrefixOp          = "op"
	PrefixComposition = "comp"
	PrefixLayer       = "layer"
	PrefixAsset       = "asset"
	PrefixCutout      = "cut"
	PrefixExport      = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string        { return New(PrefixUser) }
func NewProjectID() string     { return New(PrefixProject) }
func NewSnapshotID() string    { return New(PrefixSnapshot) }
func NewOpID() string          { return New(PrefixOp) }
func NewCompositionID() string { return New(PrefixComposition) }
func NewLayerID() string       { return New(PrefixLayer) }
func NewAssetID() string       { return New(PrefixAsset) }
func NewCutoutID() string      { return New(PrefixCutout) }
func NewExportID() string      { return New(PrefixExport) }

// ValidateAny checks that id is a well-formed typeid of any prefix.
func ValidateAny(id string) error {
	if _, err := typeid.Parse(id); err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	return nil
}

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
