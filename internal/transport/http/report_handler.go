package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "storereport/internal/errors"
	"storereport/internal/services"
	"storereport/internal/validation"
	"storereport/pkg/contracts/domain"
)

// Upload form fields
const (
	FieldRaw      = "raw"
	FieldWorkbook = "workbook"
)

// XLSXContentType is the media type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipartMemory is the part of a form kept in memory before spilling to disk
const multipartMemory = 8 << 20

// ReportHandler serves the upload page, the form and API generation endpoints
// and downloads of generated workbooks
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *validation.UploadValidator
	downloads    *downloadStore
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler. maxBytes bounds each uploaded
// file; downloadTTL is how long a generated workbook stays downloadable.
func NewReportHandler(service ReportServiceInterface, maxBytes int64, downloadTTL time.Duration, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validation.NewUploadValidator(maxBytes),
		downloads:    newDownloadStore(downloadTTL),
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Page handles GET /
func (h *ReportHandler) Page(w http.ResponseWriter, r *http.Request) {
	if err := renderPage(w, http.StatusOK, h.pageData()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("error", err.Error()))
	}
}

// SubmitForm handles POST /reports from the upload page. Failures are shown
// on the page rather than as problem documents.
func (h *ReportHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := h.pageData()

	result, err := h.generate(r)
	if err != nil {
		status := h.errorHandler.ErrorToProblem(err, r).Status
		h.logger.WarnContext(ctx, "report form submission failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))

		data.Error = formMessage(err)
		if renderErr := renderPage(w, status, data); renderErr != nil {
			h.logger.ErrorContext(ctx, "failed to render page", slog.String("error", renderErr.Error()))
		}
		return
	}

	token := h.downloads.put(result)
	data.Success = fmt.Sprintf("✅ %s 報表生成完成！", result.SheetName)
	data.DownloadURL = "/reports/" + token
	data.FileName = result.FileName
	data.Notices = result.Notices

	if err := renderPage(w, http.StatusOK, data); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page", slog.String("error", err.Error()))
	}
}

// Download handles GET /reports/{token}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	item, ok := h.downloads.get(chi.URLParam(r, "token"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrDownloadExpired)
		return
	}
	writeWorkbook(w, item.fileName, item.content)
}

// Generate handles POST /api/v1/reports and answers with the workbook itself
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.generate(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("X-Report-Sheet", result.SheetName)
	w.Header().Set("X-Report-Rows", strconv.Itoa(result.Rows))
	w.Header().Set("X-Report-Notices", strconv.Itoa(len(result.Notices)))
	writeWorkbook(w, result.FileName, result.Content)
}

// generate reads and validates the multipart form and runs the pipeline
func (h *ReportHandler) generate(r *http.Request) (*domain.ReportResult, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apierrors.ErrPayloadTooLarge
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer r.MultipartForm.RemoveAll()

	raw, rawName, err := h.readUpload(r, FieldRaw)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, apierrors.ErrMissingUpload
	}

	workbook, _, err := h.readUpload(r, FieldWorkbook)
	if err != nil {
		return nil, err
	}

	return h.service.Generate(r.Context(), services.GenerateRequest{
		RawName:  rawName,
		Raw:      raw,
		Workbook: workbook,
	})
}

// readUpload returns nil content when the field holds no file
func (h *ReportHandler) readUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", apierrors.InvalidRequestWithError(err)
	}
	defer file.Close()

	if err := h.validateHeader(field, header); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s upload: %w", field, err)
	}
	return data, header.Filename, nil
}

func (h *ReportHandler) validateHeader(field string, header *multipart.FileHeader) error {
	return h.validator.Validate(validation.Upload{
		Field: field,
		Name:  header.Filename,
		Size:  header.Size,
	})
}

func (h *ReportHandler) pageData() pageData {
	return pageData{MaxMB: h.maxBytes >> 20}
}

// formMessage is the text shown on the page for a failed submission
func formMessage(err error) string {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok && len(details.Errors) > 0 {
			return details.Errors[0].Message
		}
		return apiErr.Message
	}
	return apierrors.UserMessage(err)
}

// writeWorkbook sends an attachment whose UTF-8 name is RFC 5987 encoded
func writeWorkbook(w http.ResponseWriter, fileName string, content []byte) {
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", ContentDisposition(fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// ContentDisposition builds an attachment header with an ASCII fallback name
func ContentDisposition(fileName string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		asciiFallback(fileName), url.PathEscape(fileName))
}

func asciiFallback(name string) string {
	out := make([]byte, 0, len(name))
	for _, c := range []byte(name) {
		switch {
		case c >= 0x80:
			continue
		case c == '"' || c == '\\' || c < 0x20:
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	if len(out) == 0 || out[0] == '.' || out[0] == '_' {
		return "report" + string(out)
	}
	return string(out)
}
