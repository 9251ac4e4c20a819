package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// CleanOrdering maps requested orderings (by JSON field name) to store columns using `allowed`,
// dropping unknown fields. `defaults` is returned when nothing usable remains.
func CleanOrdering(ordering []DBOrdering, allowed map[string]string, defaults ...DBOrdering) []DBOrdering {
	cleaned := make([]DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := allowed[ord.Field]; ok {
			cleaned = append(cleaned, DBOrdering{Field: col, Ascending: ord.Ascending})
		}
	}
	if len(cleaned) == 0 {
		return defaults
	}
	return cleaned
}
