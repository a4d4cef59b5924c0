// upload.go — обработчики /api/v1/upload endpoints.
// Старт сессии загрузки (presigned URLs) и идемпотентное завершение.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/godatastore/ingest-module/internal/api/errors"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/generated"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/middleware"
	"github.com/bigkaa/godatastore/ingest-module/internal/service"
)

// StartUpload — POST /api/v1/upload/start.
// Создаёт dataset, записи файлов и возвращает presigned URLs для загрузки.
// Доступ: admin или SA с scope datasets:write.
func (h *APIHandler) StartUpload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims")
		return
	}

	// Проверка RBAC: admin или SA с datasets:write
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

	var req generated.UploadStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	files := make([]service.FileDeclaration, len(req.Files))
	for i, f := range req.Files {
		files[i] = service.FileDeclaration{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			SizeBytes:   f.SizeBytes,
		}
	}

	svcReq := &service.UploadStartRequest{
		TeamID: req.TeamId.String(),
		Name:   req.DatasetName,
		Files:  files,
	}
	if req.Description != nil {
		svcReq.Description = *req.Description
	}

	session, err := h.upload.Start(r.Context(), svcReq)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Команда не найдена")
			return
		}
		if errors.Is(err, service.ErrStorageUnavailable) {
			apierrors.StorageUnavailable(w, err.Error())
			return
		}
		h.logger.Error("Ошибка старта загрузки", "team_id", svcReq.TeamID, "error", err)
		apierrors.InternalError(w, "Ошибка создания сессии загрузки")
		return
	}

	urls := make([]generated.UploadUrlEntry, len(session.Files))
	for i, f := range session.Files {
		urls[i] = generated.UploadUrlEntry{
			FileId:     uuid.MustParse(f.File.FileID),
			Filename:   f.File.Filename,
			UploadUrl:  f.UploadURL.URL,
			StorageKey: f.File.StorageKey,
			Method:     f.UploadURL.Method,
			Headers:    f.UploadURL.Headers,
		}
	}

	resp := generated.UploadStartResponse{
		DatasetId:  uuid.MustParse(session.Dataset.DatasetID),
		UploadUrls: urls,
		ExpiresIn:  int(h.uploadURLTTL.Seconds()),
	}

	writeJSON(w, http.StatusCreated, resp)
}

// CompleteUpload — POST /api/v1/upload/complete.
// Идемпотентно закрывает сессию загрузки и ставит задачу валидации.
// Повторный вызов возвращает job созданный первым вызовом.
// Доступ: admin или SA с scope datasets:write.
func (h *APIHandler) CompleteUpload(w http.ResponseWriter, r *http.Request) {
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

	var req generated.UploadCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	result, err := h.completion.Complete(r.Context(), req.DatasetId.String())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Dataset не найден")
			return
		}
		h.logger.Error("Ошибка завершения загрузки", "dataset_id", req.DatasetId, "error", err)
		apierrors.InternalError(w, "Ошибка завершения сессии загрузки")
		return
	}

	resp := generated.UploadCompleteResponse{
		DatasetId:       uuid.MustParse(result.DatasetID),
		ValidationJobId: uuid.MustParse(result.ValidationJobID),
		Status:          generated.UploadCompleteResponseStatus(result.Status),
	}

	writeJSON(w, http.StatusOK, resp)
}
