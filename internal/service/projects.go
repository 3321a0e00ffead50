// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/internal/store"
	"github.com/socius-org/RedditHarbor/models"
)

// projectService is the [ProjectService] over a project repository.
type projectService struct {
	repo store.ProjectRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewProjectService returns a [ProjectService] backed by repo.
func NewProjectService(repo store.ProjectRepository, log *logger.Logger) ProjectService {
	return &projectService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *projectService) Create(ctx context.Context, name, description string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, ErrProjectNameRequired
	}

	now := s.now()
	project := models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Phase:       models.PhaseDesign,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return models.Project{}, err
	}

	s.log.Info().Str("projectId", project.ID).Msg("project created")
	return project, nil
}

func (s *projectService) Get(ctx context.Context, id string) (models.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]models.Project, error) {
	return s.repo.List(ctx)
}

func (s *projectService) Update(ctx context.Context, id, name, description string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, ErrProjectNameRequired
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	project.Name = name
	project.Description = strings.TrimSpace(description)
	project.UpdatedAt = s.now()
	if err = s.repo.Update(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *projectService) SetPhase(ctx context.Context, id, phase string) (models.Project, error) {
	if !models.ValidPhase(phase) {
		return models.Project{}, fmt.Errorf("%w: %q", ErrInvalidPhase, phase)
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	project.Phase = phase
	project.UpdatedAt = s.now()
	if err = s.repo.Update(ctx, project); err != nil {
		return models.Project{}, err
	}

	s.log.Info().Str("projectId", id).Str("phase", phase).Msg("project phase changed")
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
