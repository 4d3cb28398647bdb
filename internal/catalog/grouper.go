package catalog

// grouper.go groups master records by core number and resolves the expansion
// scenario for each group.
//
// Scenario resolution:
//   - diamond type classified as no-stones  => ScenarioNoStones (any size)
//   - single row with a numeric center ct   => ScenarioUniqueCenter
//   - single row without a center ct        => ScenarioUniqueNoCenter
//   - more than one row                     => ScenarioRepeating

// GroupRecords groups records by core number, preserving first-seen order of
// core numbers. Records without a resolvable core number are dropped and
// reported in the second return value.
func GroupRecords(records []*InputRecord) ([]*CoreGroup, []*InputRecord) {
	var groups []*CoreGroup
	var skipped []*InputRecord
	byCore := make(map[string]*CoreGroup)

	for _, rec := range records {
		core := rec.Get(AliasCoreNumber...)
		if core == "" {
			skipped = append(skipped, rec)
			continue
		}

		g, ok := byCore[core]
		if !ok {
			g = &CoreGroup{
				CoreNumber:  core,
				DiamondType: rec.Get(AliasDiamondType...),
			}
			byCore[core] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, rec)
	}

	for _, g := range groups {
		g.Rulebook = ResolveRulebook(g.DiamondType)
		g.Scenario = resolveScenario(g)
	}
	return groups, skipped
}

func resolveScenario(g *CoreGroup) Scenario {
	if g.Rulebook == RulebookNoStones {
		return ScenarioNoStones
	}
	if len(g.Records) > 1 {
		return ScenarioRepeating
	}
	if _, ok := g.Records[0].GetNumber(AliasCenterCt...); ok {
		return ScenarioUniqueCenter
	}
	return ScenarioUniqueNoCenter
}
