package store

import "gorm.io/gorm/clause"

// onConflictUpdate builds an upsert clause for the given conflict target that
// assigns only the listed columns, leaving everything else (including the
// identity columns) untouched.
func onConflictUpdate(conflictCols, updateCols []string) clause.OnConflict {
	target := make([]clause.Column, 0, len(conflictCols))
	for _, c := range conflictCols {
		target = append(target, clause.Column{Name: c})
	}
	return clause.OnConflict{
		Columns:   target,
		DoUpdates: clause.AssignmentColumns(updateCols),
	}
}
