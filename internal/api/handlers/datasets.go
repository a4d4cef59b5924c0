// datasets.go — обработчики /api/v1/datasets endpoints.
// Список и карточка dataset с файлами и последним заданием валидации.
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

// ListDatasets — GET /api/v1/datasets.
// Возвращает список datasets с опциональным фильтром по команде.
// Доступ: admin, readonly или SA с scope datasets:read.
func (h *APIHandler) ListDatasets(w http.ResponseWriter, r *http.Request, params generated.ListDatasetsParams) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims")
		return
	}

	// Проверка RBAC: admin/readonly или SA с datasets:read
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

	var teamID *string
	if params.TeamId != nil {
		s := params.TeamId.String()
		teamID = &s
	}

	datasets, total, err := h.datasets.List(r.Context(), teamID, limit, offset)
	if err != nil {
		h.logger.Error("Ошибка получения списка datasets", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка datasets")
		return
	}

	items := make([]generated.Dataset, len(datasets))
	for i, d := range datasets {
		items[i] = mapDataset(d)
	}

	resp := generated.DatasetListResponse{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetDataset — GET /api/v1/datasets/{dataset_id}.
// Возвращает dataset с файлами и последним заданием валидации.
// Доступ: admin, readonly или SA с scope datasets:read.
func (h *APIHandler) GetDataset(w http.ResponseWriter, r *http.Request, datasetId generated.DatasetId) {
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

	detail, err := h.datasets.Get(r.Context(), datasetId.String())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Dataset не найден")
			return
		}
		h.logger.Error("Ошибка получения dataset", "dataset_id", datasetId, "error", err)
		apierrors.InternalError(w, "Ошибка получения dataset")
		return
	}

	files := make([]generated.FileRecord, len(detail.Files))
	for i, f := range detail.Files {
		files[i] = mapFile(f)
	}

	resp := generated.DatasetDetail{
		Dataset: mapDataset(detail.Dataset),
		Files:   files,
	}
	if detail.LatestJob != nil {
		job := mapValidationJob(detail.LatestJob)
		resp.LatestValidation = &job
	}

	writeJSON(w, http.StatusOK, resp)
}

// mapDataset преобразует доменную модель в generated-тип.
func mapDataset(d *model.Dataset) generated.Dataset {
	return generated.Dataset{
		DatasetId:       uuid.MustParse(d.DatasetID),
		TeamId:          uuid.MustParse(d.TeamID),
		Name:            d.Name,
		Description:     optString(d.Description),
		FileCount:       d.FileCount,
		UploadsComplete: d.UploadsComplete,
		TotalSizeBytes:  d.TotalSizeBytes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// mapFile преобразует доменную модель файла в generated-тип.
func mapFile(f *model.File) generated.FileRecord {
	return generated.FileRecord{
		FileId:      uuid.MustParse(f.FileID),
		Filename:    f.Filename,
		StorageKey:  f.StorageKey,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
		IsUploaded:  f.IsUploaded,
		CreatedAt:   f.CreatedAt,
	}
}
