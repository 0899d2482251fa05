// Package view builds the reconciled submission list the UI renders.
package view

import "github.com/harvestlane/contactsync/internal/models"

// Build merges not-yet-synced local records with the last fetched remote
// snapshot. Pending items come first (most actionable), then remote items;
// within each group the source ordering is preserved, so the output is
// fully determined by the inputs.
//
// No identity is assumed between a pending item and any remote item: right
// after a background sync, an item may briefly appear in both groups until
// the snapshot is re-fetched. That transient duplication is accepted.
func Build(pending []*models.Submission, remote []*models.RemoteSubmission) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(pending)+len(remote))

	for _, sub := range pending {
		rows = append(rows, models.DisplayRow{
			IsPending:          true,
			LocalID:            sub.ID,
			Name:               sub.Name,
			Email:              sub.Email,
			Phone:              sub.Phone,
			Message:            sub.Message,
			InterestedProducts: []string(sub.InterestedProducts),
			CreatedAt:          sub.CreatedAt,
		})
	}

	for _, rec := range remote {
		rows = append(rows, models.DisplayRow{
			IsPending:          false,
			RemoteID:           rec.ID,
			Name:               rec.Name,
			Email:              rec.Email,
			Phone:              rec.Phone,
			Message:            rec.Message,
			InterestedProducts: []string(rec.InterestedProducts),
			CreatedAt:          rec.CreatedAt,
		})
	}

	return rows
}
