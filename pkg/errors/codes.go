package errors

import (
	"net/http"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	CodeOK ErrorCode = "OK"

	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
)

// CodeUnknown marks an error whose chain carries no AppError.
const CodeUnknown ErrorCode = "UNKNOWN"

// Survey module error codes.
const (
	ErrCodeSurveyUnknownQuestion ErrorCode = "SURVEY_001"
	ErrCodeSurveyDataInvalid     ErrorCode = "SURVEY_002"
)

// Recommendation module error codes.
const (
	ErrCodeRecoModelDisabled    ErrorCode = "RECO_001"
	ErrCodeRecoModelNoResponse  ErrorCode = "RECO_002"
	ErrCodeRecoUnparsableOutput ErrorCode = "RECO_003"
	ErrCodeRecoMissingSummary   ErrorCode = "RECO_004"
	ErrCodeRecoNoProducts       ErrorCode = "RECO_005"
	ErrCodeRecoNoCandidates     ErrorCode = "RECO_006"
)

// Language-model gateway error codes.
const (
	ErrCodeLLMRequestFailed ErrorCode = "LLM_001"
	ErrCodeLLMEmptyResponse ErrorCode = "LLM_002"
)

// User module error codes.
const (
	ErrCodeUserNotFound      ErrorCode = "USER_001"
	ErrCodeUserAlreadyExists ErrorCode = "USER_002"
)

// Upload module error codes.
const (
	ErrCodeUploadEmptyFile    ErrorCode = "UPLOAD_001"
	ErrCodeUploadStoreFailure ErrorCode = "UPLOAD_002"
)

// Short aliases used at call sites throughout the code base.
const (
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeRateLimit          = ErrCodeTooManyRequests
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeUnprocessable      = ErrCodeValidation
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodeSurveyUnknownQuestion: http.StatusBadRequest,
	ErrCodeSurveyDataInvalid:     http.StatusInternalServerError,

	ErrCodeRecoModelDisabled:    http.StatusServiceUnavailable,
	ErrCodeRecoModelNoResponse:  http.StatusServiceUnavailable,
	ErrCodeRecoUnparsableOutput: http.StatusUnprocessableEntity,
	ErrCodeRecoMissingSummary:   http.StatusUnprocessableEntity,
	ErrCodeRecoNoProducts:       http.StatusUnprocessableEntity,
	ErrCodeRecoNoCandidates:     http.StatusUnprocessableEntity,

	ErrCodeLLMRequestFailed: http.StatusServiceUnavailable,
	ErrCodeLLMEmptyResponse: http.StatusServiceUnavailable,

	ErrCodeUserNotFound:      http.StatusNotFound,
	ErrCodeUserAlreadyExists: http.StatusConflict,

	ErrCodeUploadEmptyFile:    http.StatusBadRequest,
	ErrCodeUploadStoreFailure: http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status a code maps to, defaulting to 500 for
// unmapped codes so that unclassified failures never leak as false successes.
func HTTPStatus(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
