package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"file-insight/internal/logger"
	"file-insight/internal/model"

	"gorm.io/gorm"
)

// HistoryService runs analyses on behalf of a signed-in user and keeps the
// query, response and chart of each one.
type HistoryService struct {
	db       *gorm.DB
	files    *FileService
	analysis *AnalysisService
}

func NewHistoryService(db *gorm.DB, files *FileService, analysis *AnalysisService) *HistoryService {
	return &HistoryService{db: db, files: files, analysis: analysis}
}

// Ask analyses the optional file against the question and records the result.
// Nothing is recorded when the analysis fails.
func (s *HistoryService) Ask(ctx context.Context, userID int64, req model.AskRequest) (*model.Query, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, malformed("query is required")
	}
	if err := s.analysis.Ready(); err != nil {
		return nil, err
	}

	in := model.AnalysisRequest{FileName: NoFileName, Query: req.Query}
	if req.FileID != nil {
		f, content, err := s.files.Content(ctx, userID, *req.FileID)
		if err != nil {
			return nil, err
		}
		in.FileName, in.FileContent = f.Filename, content
	}

	out, err := s.analysis.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	q := model.Query{UserID: userID, FileID: req.FileID, QueryText: req.Query, Response: out.Response}
	if out.ChartData != nil {
		chart := string(out.ChartData)
		q.ChartData = &chart
	}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fmt.Errorf("insert query: %w", err)
	}
	logger.FromContext(ctx).Info("query.saved", "uid", userID, "query_id", q.ID, "chart", q.ChartData != nil)
	return &q, nil
}

// List returns the user's queries newest first, optionally only those with a chart.
func (s *HistoryService) List(ctx context.Context, userID int64, chartsOnly bool) ([]model.Query, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if chartsOnly {
		tx = tx.Where("chart_data IS NOT NULL")
	}
	var qs []model.Query
	if err := tx.Order("created_at DESC, id DESC").Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return qs, nil
}

// Charts decodes stored charts for the dashboard. Rows whose chart does not
// fit ChartSpec are skipped, the raw value stays available through List.
func (s *HistoryService) Charts(ctx context.Context, userID int64) ([]model.ChartSummary, error) {
	qs, err := s.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	out := make([]model.ChartSummary, 0, len(qs))
	for _, q := range qs {
		var spec model.ChartSpec
		if err := json.Unmarshal([]byte(*q.ChartData), &spec); err != nil {
			logger.Debug("dashboard: undecodable chart", "query_id", q.ID, "err", err)
			continue
		}
		out = append(out, model.ChartSummary{QueryID: q.ID, QueryText: q.QueryText, Chart: &spec})
	}
	return out, nil
}

func (s *HistoryService) Delete(ctx context.Context, userID, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Query{})
	if res.Error != nil {
		return fmt.Errorf("delete query: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist for the user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
