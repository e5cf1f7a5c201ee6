package helper

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"prd-workspace/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError = `error`
	textOk    = `ok`

	codeSuccess           = 200
	codeCreated           = 201
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeForbiddenError    = 403
	codeNotFound          = 404
	codeConflict          = 409
	codeValidationError   = 422
	codeStorageError      = 500
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  interface{}
	Data     interface{}
	Code     int // mirrors the http status
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper builds a helper with english validation messages.
func NewHTTPHelper() *HTTPHelper {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{
		Validate:   validate,
		Translator: trans,
	}
}

// ValidateStruct runs the validate tags of obj. The returned error, if any, is
// a validator.ValidationErrors.
func (u *HTTPHelper) ValidateStruct(obj interface{}) error {
	return u.Validate.Struct(obj)
}

// GetStatusCode maps an error kind to its http status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		notFound     models.ErrorNotFound
		invalid      models.ErrorValidation
		conflict     models.ErrorConflict
		unauthorized models.ErrorUnauthorized
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message interface{}, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send the response matching the kind of err.
func (u *HTTPHelper) SendError(c *gin.Context, err error) error {
	var (
		notFound     models.ErrorNotFound
		invalid      models.ErrorValidation
		conflict     models.ErrorConflict
		unauthorized models.ErrorUnauthorized
		fieldErrors  validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fieldErrors):
		return u.SendValidationError(c, fieldErrors)
	case errors.As(err, &notFound):
		return u.SendNotFoundError(c, notFound.Error(), u.EmptyJsonMap())
	case errors.As(err, &invalid):
		return u.SendResponse(u.SetResponse(c, textError, invalid.Message, map[string]interface{}{
			"reason": invalid.Reason,
			"field":  invalid.Field,
		}, codeValidationError, `validationError`))
	case errors.As(err, &conflict):
		return u.SendResponse(u.SetResponse(c, textError, conflict.Error(), map[string]interface{}{
			"document_id":      conflict.DocumentID,
			"expected_version": conflict.ExpectedVersion,
			"actual_version":   conflict.ActualVersion,
		}, codeConflict, `conflict`))
	case errors.As(err, &unauthorized):
		return u.SendUnauthorizedError(c, unauthorized.Error(), u.EmptyJsonMap())
	}

	// the cause stays in the logs
	return u.SendStorageError(c, "internal storage error", u.EmptyJsonMap())
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, codeBadRequestError, `badRequest`)

	return u.SendResponse(res)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	res := u.SetResponse(c, textError, errorResponse, u.EmptyJsonMap(), codeValidationError, `validationError`)
	return u.SendResponse(res)
}

// SendStorageError ...
// Send storage error response to consumers.
func (u *HTTPHelper) SendStorageError(c *gin.Context, message string, data interface{}) error {
	return u.SendResponse(u.SetResponse(c, textError, message, data, codeStorageError, `storageError`))
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendResponse(u.SetResponse(c, textError, message, data, codeUnauthorizedError, `unAuthorized`))
}

// SendForbiddenError ...
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendResponse(u.SetResponse(c, textError, message, data, codeForbiddenError, `forbidden`))
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendResponse(u.SetResponse(c, textError, message, data, codeNotFound, `notFound`))
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`)

	return u.SendResponse(res)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeCreated, `success`)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if msg, ok := res.Message.(string); ok && len(msg) == 0 {
		res.Message = `success`
	}

	res.C.JSON(res.Code, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, limit, page, totalRecord int) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(totalRecord) / float64(limit)))
	}

	if totalPages >= page && page > 1 {
		prevURL = u.GetPagingUrl(c, page-1, limit)
		firstURL = u.GetPagingUrl(c, 1, limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, page+1, limit)
	}

	if totalPages >= page && totalPages != page {
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	return map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links":         links,
	}
}

// Underscore turns a Go identifier into snake_case: BaseVersion -> base_version.
func Underscore(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// keep acronyms together: UserID -> user_id
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
