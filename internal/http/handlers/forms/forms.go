package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/formworks/submission-service/internal/events"
	"github.com/formworks/submission-service/internal/storage"
	"github.com/formworks/submission-service/internal/submission"
	"github.com/formworks/submission-service/internal/types"
	"github.com/formworks/submission-service/internal/utils/response"
)

// Assembler is the submission core this adapter drives.
type Assembler interface {
	Assemble(ctx context.Context, meta types.Metadata, photos, videos []types.Attachment) (*types.SubmissionRecord, error)
}

// Limits bounds what a single multipart request may carry.
type Limits struct {
	MaxUploadBytes  int64
	MaxFilesPerKind int
}

// SubmitForm handles a multipart submission: metadata fields plus
// photo and video file parts
// @Summary Submit a form with attachments
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Response "Form submitted successfully"
// @Failure 400 {object} response.Response "No attachments or bad request"
// @Failure 500 {object} response.Response "Upload or persistence failure"
// @Router /submit-form [post]
func SubmitForm(assembler Assembler, publisher events.Publisher, limits Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(limits.MaxUploadBytes); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("Invalid multipart request", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		req := types.SubmitFormRequest{
			Name:    r.FormValue("name"),
			Address: r.FormValue("address"),
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("Invalid request", err))
			return
		}

		photos, err := readAttachments(r.MultipartForm, "photo", types.KindPhoto, limits.MaxFilesPerKind)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("Invalid request", err))
			return
		}

		videos, err := readAttachments(r.MultipartForm, "video", types.KindVideo, limits.MaxFilesPerKind)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("Invalid request", err))
			return
		}

		meta := types.Metadata{Name: req.Name, Address: req.Address}

		record, err := assembler.Assemble(r.Context(), meta, photos, videos)
		if err != nil {
			var ve *submission.ValidationError
			if errors.As(err, &ve) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.Response{Message: "At least one photo or video is required"})
				return
			}

			slog.Error("submission failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Something went wrong", err))
			return
		}

		if publisher != nil {
			publisher.PublishSubmissionCreated(record)
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Form submitted successfully!", record))
	}
}

// ListForms returns every persisted submission as a bare JSON array
// @Summary List all submitted forms
// @Produce json
// @Success 200 {array} types.SubmissionRecord
// @Failure 500 {object} response.Response "Record store failure"
// @Router /forms [get]
func ListForms(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := storage.ListSubmissions(r.Context())
		if err != nil {
			slog.Error("failed to list submissions", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Response{Message: "Error fetching forms"})
			return
		}

		if records == nil {
			records = []types.SubmissionRecord{}
		}

		response.WriteJSON(w, http.StatusOK, records)
	}
}

// readAttachments drains every file part of one field into memory,
// tagging each with its kind and original position.
func readAttachments(form *multipart.Form, field string, kind types.MediaKind, maxFiles int) ([]types.Attachment, error) {
	headers := form.File[field]
	if len(headers) > maxFiles {
		return nil, fmt.Errorf("too many %s files: got %d, limit is %d", field, len(headers), maxFiles)
	}

	attachments := make([]types.Attachment, 0, len(headers))
	for i, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s %d: %w", field, i, err)
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s %d: %w", field, i, err)
		}

		attachments = append(attachments, types.Attachment{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
			Kind:        kind,
			Index:       i,
		})
	}

	return attachments, nil
}
