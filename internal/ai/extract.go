package ai

// extractJSONObject locates the first top-level JSON object substring
// in raw model output. Models frequently wrap JSON in prose or code
// fences, so the scan tracks brace depth while skipping string
// literals and escapes. The second return value reports whether a
// complete object was found.
func extractJSONObject(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}
