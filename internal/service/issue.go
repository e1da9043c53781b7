package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

type IssueInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type IssuePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// IssueBatchResult is the outcome of a best-effort batch update: the
// items that were updated plus one entry per item that failed. A bad id
// never aborts its siblings.
type IssueBatchResult struct {
	Updated []model.Issue    `json:"updated"`
	Errors  []IssueBatchItem `json:"errors"`
}

type IssueBatchItem struct {
	ID    string `json:"issue_id"`
	Error string `json:"error"`
}

type IssueService struct {
	repo   repository.IssueRepository
	logger *slog.Logger
}

func NewIssueService(repo repository.IssueRepository, logger *slog.Logger) *IssueService {
	return &IssueService{repo: repo, logger: logger}
}

// Create validates the enum fields and applies defaults for any omitted
// ones (type=bug, priority=medium, status=new).
func (s *IssueService) Create(ctx context.Context, reporterID string, in IssueInput) (*model.Issue, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "issue title is required")
	}

	if in.Type == "" {
		in.Type = model.DefaultIssueType
	}
	if in.Priority == "" {
		in.Priority = model.DefaultIssuePriority
	}
	if in.Status == "" {
		in.Status = model.DefaultIssueStatus
	}

	if err := validateIssueEnums(in.Type, in.Priority, in.Status); err != nil {
		return nil, err
	}

	issue := &model.Issue{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Priority:    in.Priority,
		Status:      in.Status,
		ReporterID:  reporterID,
	}

	if err := s.repo.CreateIssue(ctx, issue); err != nil {
		s.logger.Error("failed to create issue",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	s.logger.Info("issue created",
		slog.String("id", issue.ID),
		slog.String("type", issue.Type),
		slog.String("priority", issue.Priority),
	)

	return issue, nil
}

func (s *IssueService) GetByID(ctx context.Context, id string) (*model.Issue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "issue ID is required")
	}
	return s.repo.GetIssueByID(ctx, id)
}

// List returns issues filtered by any combination of the enum fields.
// Filter values are validated so a typo yields a 400 naming the allowed
// set instead of a silently empty list.
func (s *IssueService) List(ctx context.Context, filter repository.IssueFilter) ([]model.Issue, error) {
	if filter.Status != "" && !model.ValidEnumValue(filter.Status, model.IssueStatuses) {
		return nil, apperror.InvalidEnum("status", filter.Status, model.IssueStatuses)
	}
	if filter.Priority != "" && !model.ValidEnumValue(filter.Priority, model.IssuePriorities) {
		return nil, apperror.InvalidEnum("priority", filter.Priority, model.IssuePriorities)
	}
	if filter.Type != "" && !model.ValidEnumValue(filter.Type, model.IssueTypes) {
		return nil, apperror.InvalidEnum("type", filter.Type, model.IssueTypes)
	}

	issues, err := s.repo.ListIssues(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list issues", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	return issues, nil
}

func (s *IssueService) Update(ctx context.Context, id string, patch IssuePatch) (*model.Issue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "issue ID is required")
	}

	issue, err := s.repo.GetIssueByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "issue title cannot be empty")
		}
		issue.Title = title
	}
	if patch.Description != nil {
		issue.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Type != nil {
		issue.Type = *patch.Type
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}

	if err := validateIssueEnums(issue.Type, issue.Priority, issue.Status); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateIssue(ctx, issue); err != nil {
		s.logger.Error("failed to update issue",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	return issue, nil
}

func (s *IssueService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "issue ID is required")
	}

	if err := s.repo.DeleteIssue(ctx, id); err != nil {
		return err
	}

	s.logger.Info("issue deleted", slog.String("id", id))
	return nil
}

// BatchUpdateStatus sets the status on each of the given issues
// independently: per-item failures (unknown id, store error) are
// collected and returned alongside the items that did update.
func (s *IssueService) BatchUpdateStatus(ctx context.Context, ids []string, status string) (*IssueBatchResult, error) {
	if len(ids) == 0 {
		return nil, apperror.ValidationFailed("issue_ids", "at least one issue ID is required")
	}
	if !model.ValidEnumValue(status, model.IssueStatuses) {
		return nil, apperror.InvalidEnum("status", status, model.IssueStatuses)
	}

	result := &IssueBatchResult{
		Updated: []model.Issue{},
		Errors:  []IssueBatchItem{},
	}

	for _, id := range ids {
		issue, err := s.Update(ctx, id, IssuePatch{Status: &status})
		if err != nil {
			result.Errors = append(result.Errors, IssueBatchItem{
				ID:    id,
				Error: err.Error(),
			})
			continue
		}
		result.Updated = append(result.Updated, *issue)
	}

	s.logger.Info("issue batch update",
		slog.String("status", status),
		slog.Int("updated", len(result.Updated)),
		slog.Int("failed", len(result.Errors)),
	)

	return result, nil
}

func validateIssueEnums(issueType, priority, status string) error {
	if !model.ValidEnumValue(issueType, model.IssueTypes) {
		return apperror.InvalidEnum("type", issueType, model.IssueTypes)
	}
	if !model.ValidEnumValue(priority, model.IssuePriorities) {
		return apperror.InvalidEnum("priority", priority, model.IssuePriorities)
	}
	if !model.ValidEnumValue(status, model.IssueStatuses) {
		return apperror.InvalidEnum("status", status, model.IssueStatuses)
	}
	return nil
}
