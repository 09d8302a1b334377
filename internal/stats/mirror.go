package stats

// Mirror is a match record from the point of view of another tracked participant.
type Mirror struct {
	EntityID int64
	Record   MatchRecord
}

// DeriveMirrors builds the records of every tracked participant other than the owner.
// The opponent always gets one; partner and second opponent only in doubles.
// External participants are skipped.
func DeriveMirrors(ownerID int64, record MatchRecord, doubles bool) []Mirror {
	owner := Participant{ID: ownerID}
	var partner, opponent2 *Participant
	if doubles {
		partner = record.Partner
		opponent2 = record.Opponent2
	}

	var mirrors []Mirror

	if !record.Opponent.IsExternal {
		m := mirrorBase(record, record.Result.Invert())
		m.Opponent = owner
		m.Opponent2 = cloneParticipant(partner)
		m.Partner = cloneParticipant(opponent2)
		mirrors = append(mirrors, Mirror{EntityID: record.Opponent.ID, Record: m})
	}

	if opponent2 != nil && !opponent2.IsExternal {
		m := mirrorBase(record, record.Result.Invert())
		m.Opponent = owner
		m.Opponent2 = cloneParticipant(partner)
		opp := record.Opponent
		m.Partner = &opp
		mirrors = append(mirrors, Mirror{EntityID: opponent2.ID, Record: m})
	}

	if partner != nil && !partner.IsExternal {
		m := mirrorBase(record, record.Result)
		m.Opponent = record.Opponent
		m.Opponent2 = cloneParticipant(opponent2)
		m.Partner = &owner
		mirrors = append(mirrors, Mirror{EntityID: partner.ID, Record: m})
	}

	return mirrors
}

func mirrorBase(record MatchRecord, result Result) MatchRecord {
	var games []Game
	if record.Games != nil {
		games = make([]Game, len(record.Games))
		for i, g := range record.Games {
			games[i] = g
			if g.Time != nil {
				t := *g.Time
				games[i].Time = &t
			}
		}
	}
	return MatchRecord{
		MatchID:    record.MatchID,
		Category:   record.Category,
		Date:       record.Date,
		MatchScore: record.MatchScore,
		Result:     result,
		Notes:      record.Notes,
		Games:      games,
	}
}

func cloneParticipant(p *Participant) *Participant {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
