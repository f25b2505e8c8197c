package enums

import "fmt"

// ForumCategory is the fixed set of discussion boards.
type ForumCategory string

const (
	ForumCategoryGeneral     ForumCategory = "general"
	ForumCategoryLand        ForumCategory = "land"
	ForumCategoryGardening   ForumCategory = "gardening"
	ForumCategoryProjects    ForumCategory = "projects"
	ForumCategoryMarketplace ForumCategory = "marketplace"
)

var validForumCategories = []ForumCategory{
	ForumCategoryGeneral,
	ForumCategoryLand,
	ForumCategoryGardening,
	ForumCategoryProjects,
	ForumCategoryMarketplace,
}

// IsValid reports whether the value is a known ForumCategory.
func (c ForumCategory) IsValid() bool {
	for _, candidate := range validForumCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseForumCategory converts raw input into ForumCategory.
func ParseForumCategory(value string) (ForumCategory, error) {
	for _, candidate := range validForumCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid forum category %q", value)
}
