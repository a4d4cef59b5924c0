// teams.go — сервис реестра команд.
// Команда — владелец датасетов; датасет нельзя создать без существующей команды.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
)

// TeamService — сервис управления командами.
type TeamService struct {
	teamRepo repository.TeamRepository
	logger   *slog.Logger
}

// NewTeamService создаёт сервис команд.
func NewTeamService(teamRepo repository.TeamRepository, logger *slog.Logger) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		logger:   logger.With(slog.String("component", "team_service")),
	}
}

// Create регистрирует новую команду.
func (s *TeamService) Create(ctx context.Context, name, description string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: имя команды не может быть пустым", ErrValidation)
	}

	team := &model.Team{
		TeamID:      uuid.New().String(),
		Name:        name,
		Description: description,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: команда с именем '%s' уже существует", ErrConflict, name)
		}
		return nil, fmt.Errorf("создание команды: %w", err)
	}

	s.logger.Info("Команда создана",
		slog.String("team_id", team.TeamID),
		slog.String("name", name),
	)

	return team, nil
}

// Get возвращает команду по ID.
func (s *TeamService) Get(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение команды: %w", err)
	}
	return team, nil
}

// List возвращает список команд с пагинацией.
func (s *TeamService) List(ctx context.Context, limit, offset int) ([]*model.Team, int, error) {
	teams, err := s.teamRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка команд: %w", err)
	}
	total, err := s.teamRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт команд: %w", err)
	}
	return teams, total, nil
}
