package objects

import "fmt"

// CheckMetadata rejects metadata naming the same property twice.
func CheckMetadata(metadata []MetadataProperty) error {
	seen := make(map[string]struct{}, len(metadata))
	for _, m := range metadata {
		if _, ok := seen[m.Property]; ok {
			return fmt.Errorf("%w (%s)", ErrDuplicateMetadataProperty, m.Property)
		}
		seen[m.Property] = struct{}{}
	}
	return nil
}
