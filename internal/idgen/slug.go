package idgen

import "strings"

// SlugLength is the number of identifier characters shown in a slug.
const SlugLength = 12

// Slug groups the first 12 characters of id as xxxx-xxxx-xxxx. Shorter ids
// are grouped as far as they go.
func Slug(id string) string {
	if len(id) > SlugLength {
		id = id[:SlugLength]
	}

	var groups []string
	for len(id) > 4 {
		groups = append(groups, id[:4])
		id = id[4:]
	}
	groups = append(groups, id)

	return strings.Join(groups, "-")
}

// NormalizeID turns a slug into the keychain id: separators removed,
// lowercased.
func NormalizeID(slug string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(slug), "-", ""))
}

// SlugFromID re-inserts the separators into a normalised keychain id.
func SlugFromID(id string) string {
	return Slug(id)
}
