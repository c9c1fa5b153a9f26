package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shortlyhq/shortly/internal/entity"
)

type shortenRequest struct {
	OriginalURL string     `json:"original_url" validate:"required,url,max=500"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

type urlResponse struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

func shortURL(baseURL, shortCode string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + shortCode + "/"
}

func toURLResponse(baseURL string, rec *entity.URLRecord) urlResponse {
	return urlResponse{
		ID:          rec.ID,
		ShortCode:   rec.ShortCode,
		ShortURL:    shortURL(baseURL, rec.ShortCode),
		OriginalURL: rec.OriginalURL,
		Clicks:      rec.Clicks,
		CreatedAt:   rec.CreatedAt,
		ExpiryDate:  rec.ExpiryDate,
	}
}

func toURLResponses(baseURL string, records []entity.URLRecord) []urlResponse {
	resp := make([]urlResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toURLResponse(baseURL, &records[i]))
	}
	return resp
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func errorResponse(msg string) map[string]string {
	return map[string]string{
		"status":  "error",
		"message": msg,
	}
}

func validationErrorResponse(msg string, fieldErrors []fieldError) map[string]any {
	return map[string]any{
		"status":  "error",
		"message": msg,
		"errors":  fieldErrors,
	}
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func fieldErrors(err error) []fieldError {
	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return nil
	}

	fieldErrs := make([]fieldError, 0, len(validateErrs))

	for _, fe := range validateErrs {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "field is required"
		case "url":
			msg = "field must be a valid url"
		case "max":
			msg = "field exceeds maximum length"
		default:
			msg = "field is invalid"
		}

		fieldErrs = append(fieldErrs, fieldError{
			Field:   fe.Field(),
			Message: msg,
		})
	}

	return fieldErrs
}
