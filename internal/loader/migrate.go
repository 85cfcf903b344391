package loader

import "encoding/json"

// deprecatedVersionPrefix is the legacy schema family accepted read-only
// with an automatic migration, per spec §6.
const deprecatedVersionPrefix = "0.9."

// migrationTargetVersion is the version every migrated document is bumped
// to, per spec §6: "version field bumped to 1.0.0".
const migrationTargetVersion = "1.0.0"

// isDeprecatedVersion reports whether version belongs to the legacy 0.9.x
// family that requires migration before further processing.
func isDeprecatedVersion(version string) bool {
	return len(version) >= len(deprecatedVersionPrefix) && version[:len(deprecatedVersionPrefix)] == deprecatedVersionPrefix
}

// migrateFlowDoc rewrites a raw 0.9.x flow object into the 1.0.0 shape:
// nodes -> components, edges -> connections, from -> source, to -> target.
// Fields it does not recognize are passed through unchanged — the
// migration only renames the four keys named above and never attempts to
// interpret unfamiliar nested structures (see SPEC_FULL.md §13).
func migrateFlowDoc(raw json.RawMessage) (json.RawMessage, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	if nodes, ok := obj["nodes"]; ok {
		obj["components"] = nodes
		delete(obj, "nodes")
	}
	if edges, ok := obj["edges"]; ok {
		obj["connections"] = migrateEdges(edges)
		delete(obj, "edges")
	} else if conns, ok := obj["connections"]; ok {
		obj["connections"] = migrateEdges(conns)
	}

	return json.Marshal(obj)
}

func migrateEdges(raw interface{}) interface{} {
	list, ok := raw.([]interface{})
	if !ok {
		return raw
	}
	out := make([]interface{}, len(list))
	for i, elem := range list {
		edge, ok := elem.(map[string]interface{})
		if !ok {
			out[i] = elem
			continue
		}
		if from, ok := edge["from"]; ok {
			edge["source"] = from
			delete(edge, "from")
		}
		if to, ok := edge["to"]; ok {
			edge["target"] = to
			delete(edge, "to")
		}
		out[i] = edge
	}
	return out
}
