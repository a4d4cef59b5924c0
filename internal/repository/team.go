package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
)

// TeamRepository — интерфейс репозитория команд.
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, teamID string) (*model.Team, error)
	List(ctx context.Context, limit, offset int) ([]*model.Team, error)
	Count(ctx context.Context) (int, error)
}

type teamRepository struct {
	db DBTX
}

// NewTeamRepository создаёт репозиторий команд.
func NewTeamRepository(db DBTX) TeamRepository {
	return &teamRepository{db: db}
}

// Create добавляет новую команду.
// Возвращает ErrConflict, если команда с таким именем уже существует.
func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	query := `
		INSERT INTO teams (team_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, team.TeamID, team.Name, team.Description).
		Scan(&team.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("команда %q: %w", team.Name, ErrConflict)
		}
		return fmt.Errorf("ошибка создания команды: %w", err)
	}
	return nil
}

// GetByID возвращает команду по идентификатору.
func (r *teamRepository) GetByID(ctx context.Context, teamID string) (*model.Team, error) {
	query := `
		SELECT team_id, name, description, created_at
		FROM teams
		WHERE team_id = $1
	`
	team := &model.Team{}
	err := r.db.QueryRow(ctx, query, teamID).
		Scan(&team.TeamID, &team.Name, &team.Description, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("команда %s: %w", teamID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения команды: %w", err)
	}
	return team, nil
}

// List возвращает команды с пагинацией, отсортированные по имени.
func (r *teamRepository) List(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	query := `
		SELECT team_id, name, description, created_at
		FROM teams
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка команд: %w", err)
	}
	defer rows.Close()

	teams := make([]*model.Team, 0)
	for rows.Next() {
		team := &model.Team{}
		if err := rows.Scan(&team.TeamID, &team.Name, &team.Description, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения команды: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// Count возвращает общее количество команд.
func (r *teamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта команд: %w", err)
	}
	return count, nil
}
