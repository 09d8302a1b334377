package stats

// BuildSkeleton returns the zero-valued document a player needs before the first
// match can be recorded: every category has zero counters and empty lists.
func BuildSkeleton(entityID int64, categories []string) *StatisticsDocument {
	doc := &StatisticsDocument{
		EntityID:   entityID,
		Categories: make(map[string]*CategoryAggregate, len(categories)),
	}
	for _, category := range categories {
		doc.Categories[category] = &CategoryAggregate{
			Played:    []MatchRecord{},
			Scheduled: []ScheduledMatch{},
		}
	}
	return doc
}
