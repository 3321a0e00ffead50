// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/socius-org/RedditHarbor/models"
)

var projectColumns = []string{"id", "name", "description", "phase", "created_at", "updated_at"}

// projectRepository is a [ProjectRepository] over a SQLite database.
type projectRepository struct {
	db *sql.DB
}

// NewProjectRepository returns a [ProjectRepository] backed by db.
func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project models.Project) error {
	query, args, err := sq.Insert(project.TableName()).
		Columns(projectColumns...).
		Values(project.ID, project.Name, project.Description, project.Phase, project.CreatedAt, project.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert project query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *projectRepository) Get(ctx context.Context, id string) (models.Project, error) {
	query, args, err := sq.Select(projectColumns...).
		From(models.Project{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Project{}, fmt.Errorf("build select project query: %w", err)
	}

	var project models.Project
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&project.ID, &project.Name, &project.Description, &project.Phase, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrProjectNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("select project: %w", err)
	}
	return project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	query, args, err := sq.Select(projectColumns...).
		From(models.Project{}.TableName()).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err = rows.Scan(&project.ID, &project.Name, &project.Description, &project.Phase, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project models.Project) error {
	query, args, err := sq.Update(project.TableName()).
		Set("name", project.Name).
		Set("description", project.Description).
		Set("phase", project.Phase).
		Set("updated_at", project.UpdatedAt).
		Where(sq.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update project query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireAffected(result)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete(models.Project{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete project query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
