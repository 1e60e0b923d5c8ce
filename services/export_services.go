package services

import (
	"context"
	"fmt"
	"time"

	"arena-api/database"

	"github.com/xuri/excelize/v2"
)

const RankingSheet = "Ranking"

var rankingHeader = []interface{}{"Rank", "Submission ID", "User ID", "Rating", "Ratings", "Description", "Created At"}

// ExportRanking builds a workbook with the submissions of a competition ranked by aggregate rating
func (s *CompetitionService) ExportRanking(ctx context.Context, id uint) (*excelize.File, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	submissions, err := s.store.ListSubmissions(ctx, id, database.SubmissionQuery{OrderBy: database.OrderByRating})
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}
	ids := make([]uint, len(submissions))
	for i, submission := range submissions {
		ids[i] = submission.ID
	}
	counts, err := s.store.CountRatings(ctx, ids)
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), RankingSheet); err != nil {
		return nil, newError(KindInternal, "failed to build workbook", err)
	}
	if err := f.SetSheetRow(RankingSheet, "A1", &rankingHeader); err != nil {
		return nil, newError(KindInternal, "failed to build workbook", err)
	}
	for i, submission := range submissions {
		row := []interface{}{
			i + 1,
			submission.ID,
			submission.UserID,
			submission.Rating,
			counts[submission.ID],
			submission.Description,
			submission.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(RankingSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, newError(KindInternal, "failed to build workbook", err)
		}
	}
	return f, nil
}
