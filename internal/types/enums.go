package types

// Category is the EPA health category tier for an AQI value.
type Category string

const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategorySensitive     Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryHazardous     Category = "Hazardous"
)

// Categories lists all tiers in ascending severity order.
var Categories = []Category{
	CategoryGood,
	CategoryModerate,
	CategorySensitive,
	CategoryUnhealthy,
	CategoryVeryUnhealthy,
	CategoryHazardous,
}

// severityRank maps each category to its position on the severity scale.
var severityRank = map[Category]int{
	CategoryGood:          0,
	CategoryModerate:      1,
	CategorySensitive:     2,
	CategoryUnhealthy:     3,
	CategoryVeryUnhealthy: 4,
	CategoryHazardous:     5,
}

// Severity returns the category's rank on the 0 (Good) to 5 (Hazardous)
// severity scale. Unknown categories rank below Good.
func (c Category) Severity() int {
	rank, ok := severityRank[c]
	if !ok {
		return -1
	}
	return rank
}

// WorseThan reports whether c is a more severe tier than other.
func (c Category) WorseThan(other Category) bool {
	return c.Severity() > other.Severity()
}
