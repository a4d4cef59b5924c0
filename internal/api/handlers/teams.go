// teams.go — обработчики /api/v1/teams endpoints.
// Реестр команд-владельцев datasets.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/godatastore/ingest-module/internal/api/errors"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/generated"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/middleware"
	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/service"
)

// CreateTeam — POST /api/v1/teams.
// Регистрирует команду с уникальным именем.
// Доступ: admin или SA с scope datasets:write.
func (h *APIHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims")
		return
	}

	switch claims.SubjectType {
	case middleware.SubjectTypeUser:
		if !claims.HasRole("admin") {
			apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin")
			return
		}
	case middleware.SubjectTypeSA:
		if !claims.HasScope(middleware.ScopeDatasetsWrite) {
			apierrors.Forbidden(w, "Недостаточно прав: требуется scope datasets:write")
			return
		}
	default:
		apierrors.Forbidden(w, "Неизвестный тип субъекта")
		return
	}

	var req generated.TeamCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	// Валидация
	if req.Name == "" || len(req.Name) > 100 {
		apierrors.ValidationError(w, "Имя команды должно быть от 1 до 100 символов")
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	team, err := h.teams.Create(r.Context(), req.Name, description)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrConflict) {
			apierrors.Conflict(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания команды", "name", req.Name, "error", err)
		apierrors.InternalError(w, "Ошибка регистрации команды")
		return
	}

	writeJSON(w, http.StatusCreated, mapTeam(team))
}

// ListTeams — GET /api/v1/teams.
// Возвращает список зарегистрированных команд.
// Доступ: admin, readonly или SA с scope datasets:read.
func (h *APIHandler) ListTeams(w http.ResponseWriter, r *http.Request, params generated.ListTeamsParams) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims")
		return
	}

	switch claims.SubjectType {
	case middleware.SubjectTypeUser:
		if !claims.HasAnyRole("admin", "readonly") {
			apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin или readonly")
			return
		}
	case middleware.SubjectTypeSA:
		if !claims.HasScope(middleware.ScopeDatasetsRead) {
			apierrors.Forbidden(w, "Недостаточно прав: требуется scope datasets:read")
			return
		}
	default:
		apierrors.Forbidden(w, "Неизвестный тип субъекта")
		return
	}

	limit, offset := paginationDefaults(params.Limit, params.Offset)

	teams, total, err := h.teams.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения списка команд", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка команд")
		return
	}

	items := make([]generated.Team, len(teams))
	for i, t := range teams {
		items[i] = mapTeam(t)
	}

	resp := generated.TeamListResponse{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTeam — GET /api/v1/teams/{team_id}.
// Возвращает команду по ID.
// Доступ: admin, readonly или SA с scope datasets:read.
func (h *APIHandler) GetTeam(w http.ResponseWriter, r *http.Request, teamId uuid.UUID) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims")
		return
	}

	switch claims.SubjectType {
	case middleware.SubjectTypeUser:
		if !claims.HasAnyRole("admin", "readonly") {
			apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin или readonly")
			return
		}
	case middleware.SubjectTypeSA:
		if !claims.HasScope(middleware.ScopeDatasetsRead) {
			apierrors.Forbidden(w, "Недостаточно прав: требуется scope datasets:read")
			return
		}
	default:
		apierrors.Forbidden(w, "Неизвестный тип субъекта")
		return
	}

	team, err := h.teams.Get(r.Context(), teamId.String())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Команда не найдена")
			return
		}
		h.logger.Error("Ошибка получения команды", "team_id", teamId, "error", err)
		apierrors.InternalError(w, "Ошибка получения команды")
		return
	}

	writeJSON(w, http.StatusOK, mapTeam(team))
}

// mapTeam преобразует доменную модель команды в generated-тип.
func mapTeam(t *model.Team) generated.Team {
	return generated.Team{
		TeamId:      uuid.MustParse(t.TeamID),
		Name:        t.Name,
		Description: optString(t.Description),
		CreatedAt:   t.CreatedAt,
	}
}
