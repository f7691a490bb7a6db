package ytmusic

// nav walks a loosely-typed JSON tree: string keys index maps, int keys
// index slices. Returns nil as soon as a step misses.
func nav(node any, keys ...any) any {
	cur := node
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[k]
		case int:
			s, ok := cur.([]any)
			if !ok || k < 0 || k >= len(s) {
				return nil
			}
			cur = s[k]
		default:
			return nil
		}
	}
	return cur
}

// navString is nav with a string result, empty on any miss.
func navString(node any, keys ...any) string {
	s, _ := nav(node, keys...).(string)
	return s
}

// navSlice is nav with a slice result, nil on any miss.
func navSlice(node any, keys ...any) []any {
	s, _ := nav(node, keys...).([]any)
	return s
}

// findKey depth-first searches the tree for the first string value stored
// under key.
func findKey(node any, key string) (string, bool) {
	switch n := node.(type) {
	case map[string]any:
		if v, ok := n[key].(string); ok {
			return v, true
		}
		for _, child := range n {
			if v, ok := findKey(child, key); ok {
				return v, true
			}
		}
	case []any:
		for _, child := range n {
			if v, ok := findKey(child, key); ok {
				return v, true
			}
		}
	}
	return "", false
}

// hasKey depth-first searches the tree for any value stored under key.
func hasKey(node any, key string) bool {
	switch n := node.(type) {
	case map[string]any:
		if _, ok := n[key]; ok {
			return true
		}
		for _, child := range n {
			if hasKey(child, key) {
				return true
			}
		}
	case []any:
		for _, child := range n {
			if hasKey(child, key) {
				return true
			}
		}
	}
	return false
}

// findAllMaps depth-first collects every map stored under key.
func findAllMaps(node any, key string) []map[string]any {
	var out []map[string]any
	switch n := node.(type) {
	case map[string]any:
		if m, ok := n[key].(map[string]any); ok {
			out = append(out, m)
		}
		for _, child := range n {
			out = append(out, findAllMaps(child, key)...)
		}
	case []any:
		for _, child := range n {
			out = append(out, findAllMaps(child, key)...)
		}
	}
	return out
}
