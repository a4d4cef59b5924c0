// validation.go — обработчик /api/v1/validation/{dataset_id}/status.
// Статус последнего задания валидации dataset.
package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/godatastore/ingest-module/internal/api/errors"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/generated"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/middleware"
	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/service"
)

// GetValidationStatus — GET /api/v1/validation/{dataset_id}/status.
// Возвращает последнее по created_at задание валидации dataset.
// Если валидация ещё не запускалась — 404.
// Доступ: admin, readonly или SA с scope datasets:read.
func (h *APIHandler) GetValidationStatus(w http.ResponseWriter, r *http.Request, datasetId generated.DatasetId) {
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

	job, err := h.datasets.ValidationStatus(r.Context(), datasetId.String())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Dataset не найден")
			return
		}
		if errors.Is(err, service.ErrNoValidation) {
			apierrors.NotFound(w, "Валидация dataset ещё не запускалась")
			return
		}
		h.logger.Error("Ошибка получения статуса валидации", "dataset_id", datasetId, "error", err)
		apierrors.InternalError(w, "Ошибка получения статуса валидации")
		return
	}

	writeJSON(w, http.StatusOK, mapValidationJob(job))
}

// mapValidationJob преобразует доменную модель job в generated-тип.
func mapValidationJob(j *model.ValidationJob) generated.ValidationStatusResponse {
	resp := generated.ValidationStatusResponse{
		DatasetId:       uuid.MustParse(j.DatasetID),
		ValidationJobId: uuid.MustParse(j.JobID),
		Status:          generated.ValidationStatusResponseStatus(j.Status),
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		ErrorMessage:    j.ErrorMessage,
	}

	if len(j.Logs) > 0 {
		logs := make([]generated.ValidationLogEntry, len(j.Logs))
		for i, e := range j.Logs {
			logs[i] = generated.ValidationLogEntry{
				Timestamp: e.Timestamp,
				Level:     generated.ValidationLogEntryLevel(e.Level),
				Message:   e.Message,
			}
		}
		resp.ValidationLogs = &logs
	}

	if j.Results != nil {
		files := make([]generated.FileValidationDetail, len(j.Results.Files))
		for i, f := range j.Results.Files {
			files[i] = generated.FileValidationDetail{
				Filename:   f.Filename,
				StorageKey: f.StorageKey,
				Size:       f.Size,
				Status:     f.Status,
			}
		}
		resp.ValidationResults = &generated.ValidationResults{
			TotalFiles:     j.Results.TotalFiles,
			ValidatedFiles: j.Results.ValidatedFiles,
			TotalSizeBytes: j.Results.TotalSizeBytes,
			Files:          files,
		}
	}

	return resp
}
