package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "storereport/internal/errors"
)

// Accepted upload extensions
var (
	RawExtensions      = []string{".csv", ".xlsx", ".xlsm"}
	WorkbookExtensions = []string{".xlsx", ".xlsm"}
)

// Upload describes one received file before it is parsed
type Upload struct {
	Field string `validate:"required,oneof=raw workbook"`
	Name  string `validate:"required,notemp"`
	Size  int64  `validate:"gt=0"`
}

// UploadValidator checks uploaded files with go-playground/validator
type UploadValidator struct {
	validate *validator.Validate
	maxBytes int64
}

// NewUploadValidator creates a validator rejecting files above maxBytes; zero disables the limit
func NewUploadValidator(maxBytes int64) *UploadValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("notemp", isNotTempFile)
	v.RegisterStructValidation(uploadStructLevel, Upload{})

	return &UploadValidator{validate: v, maxBytes: maxBytes}
}

// Validate returns an *errors.APIError listing every invalid field, or nil
func (u *UploadValidator) Validate(up Upload) error {
	var problems []apierrors.ValidationError

	if err := u.validate.Struct(up); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apierrors.InvalidRequestWithError(err)
		}
		for _, fe := range verrs {
			problems = append(problems, apierrors.ValidationError{
				Field:   up.Field,
				Message: fieldMessage(fe, up),
			})
		}
	}

	if u.maxBytes > 0 && up.Size > u.maxBytes {
		problems = append(problems, apierrors.ValidationError{
			Field:   up.Field,
			Message: fmt.Sprintf("檔案大小 %d bytes 超過上限 %d bytes", up.Size, u.maxBytes),
		})
	}

	if len(problems) == 0 {
		return nil
	}
	return apierrors.NewValidationErrors(problems)
}

// uploadStructLevel checks the extension against the field's accepted list
func uploadStructLevel(sl validator.StructLevel) {
	up := sl.Current().Interface().(Upload)
	if up.Name == "" {
		return
	}
	allowed := RawExtensions
	if up.Field == "workbook" {
		allowed = WorkbookExtensions
	}
	if !hasExtension(up.Name, allowed) {
		sl.ReportError(up.Name, "Name", "Name", "ext", strings.Join(allowed, " "))
	}
}

// isNotTempFile rejects Excel lock files such as "~$日報表.xlsx"
func isNotTempFile(fl validator.FieldLevel) bool {
	return !strings.HasPrefix(filepath.Base(fl.Field().String()), "~$")
}

func hasExtension(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

func fieldMessage(fe validator.FieldError, up Upload) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "Field" {
			return "缺少上傳欄位名稱"
		}
		return "未選擇檔案"
	case "oneof":
		return fmt.Sprintf("未知的上傳欄位 %q", up.Field)
	case "notemp":
		return "請勿上傳 Excel 暫存檔 (~$)"
	case "gt":
		return "檔案是空的"
	case "ext":
		return fmt.Sprintf("不支援的檔案格式 %q，可接受：%s", filepath.Ext(up.Name), fe.Param())
	default:
		return fe.Error()
	}
}
