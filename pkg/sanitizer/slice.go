package sanitizer

// NormalizeStringSlice applies normalizer and drops empty and repeated values.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// MapStrings applies normalizer to every item, preserving length and order.
func MapStrings(items []string, normalizer func(string) string) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = normalizer(item)
	}
	return result
}

func NormalizeIMDbIDs(ids []string) []string {
	return NormalizeStringSlice(ids, NormalizeIMDbID)
}
