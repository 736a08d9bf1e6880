package schema

import "sort"

// FilterEntities removes entities whose class name or storage name matches
// the exclude list. It returns a new Schema with the remaining entities; the
// original is not modified.
func FilterEntities(s *Schema, exclude []string) *Schema {
	excludeMap := make(map[string]bool)
	for _, name := range exclude {
		excludeMap[name] = true
	}

	filtered := make([]Entity, 0, len(s.Entities))
	for _, entity := range s.Entities {
		if excludeMap[entity.Name] || excludeMap[entity.StorageName] {
			continue
		}
		filtered = append(filtered, entity)
	}

	return &Schema{Entities: filtered}
}

// SortEntities orders entities by name, then storage name, then source path,
// so that output never depends on filesystem enumeration order.
func SortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Name != entities[j].Name {
			return entities[i].Name < entities[j].Name
		}
		if entities[i].StorageName != entities[j].StorageName {
			return entities[i].StorageName < entities[j].StorageName
		}
		return entities[i].SourcePath < entities[j].SourcePath
	})
}
