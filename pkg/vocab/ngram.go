package vocab

// GramSize is the fixed n-gram width of the similarity structure.
const GramSize = 3

// NGrams returns the distinct rune n-grams of s in first-seen order.
// Strings shorter than GramSize produce no grams; the index keeps those
// entries on its short list instead so fuzzy search can still reach them.
func NGrams(s string) []string {
	runes := []rune(s)
	if len(runes) < GramSize {
		return nil
	}
	seen := make(map[string]struct{}, len(runes))
	grams := make([]string, 0, len(runes)-GramSize+1)
	for i := 0; i+GramSize <= len(runes); i++ {
		g := string(runes[i : i+GramSize])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		grams = append(grams, g)
	}
	return grams
}
