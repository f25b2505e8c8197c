package enums

import "fmt"

// CourseLevel grades course difficulty for the learning catalog.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

var validCourseLevels = []CourseLevel{
	CourseLevelBeginner,
	CourseLevelIntermediate,
	CourseLevelAdvanced,
}

// String implements fmt.Stringer.
func (c CourseLevel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CourseLevel.
func (c CourseLevel) IsValid() bool {
	for _, candidate := range validCourseLevels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourseLevel converts raw input into a CourseLevel.
func ParseCourseLevel(value string) (CourseLevel, error) {
	for _, candidate := range validCourseLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid course level %q", value)
}
