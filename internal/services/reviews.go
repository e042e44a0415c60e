package services

import (
	"ouroboros-backend/internal/models"
)

// ReviewIntervals are the spaced-repetition offsets, in days after the
// studied date, at which a topic comes back for review.
var ReviewIntervals = []int{1, 7, 30}

// ScheduleReviews builds the pending review rows for a freshly saved study
// record, one per interval, denormalizing the subject and topic for display.
func ScheduleReviews(rec *models.StudyRecord) []*models.ReviewRecord {
	reviews := make([]*models.ReviewRecord, 0, len(ReviewIntervals))
	for _, days := range ReviewIntervals {
		reviews = append(reviews, &models.ReviewRecord{
			StudyRecordID: rec.ID,
			PlanID:        rec.PlanID,
			UserID:        rec.UserID,
			SubjectID:     rec.SubjectID,
			SubjectName:   rec.SubjectName,
			TopicText:     rec.TopicText,
			IntervalDays:  days,
			ScheduledDate: rec.Date.AddDate(0, 0, days),
		})
	}
	return reviews
}
