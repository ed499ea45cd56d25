package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		registerCustom(validate)

		// Use JSON tag names for error messages
		validate.RegisterTagNameFunc(jsonTagName)

		// Set as Gin's default validator
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
			v.RegisterTagNameFunc(jsonTagName)
		}
	})

	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("quantity", validateQuantity)
	_ = v.RegisterValidation("audit_result", validateAuditResult)
	_ = v.RegisterValidation("priority", validatePriority)
	_ = v.RegisterValidation("filter_mode", validateFilterMode)
	_ = v.RegisterValidation("source_filter", validateSourceFilter)
	_ = v.RegisterValidation("shift_filter", validateShiftFilter)
	_ = v.RegisterValidation("metal_id", validateMetalID)
	_ = v.RegisterValidation("safe_string", validateSafeString)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return fld.Name
	}
	return name
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

// Custom validators

var (
	// decimal with either comma or dot separator, e.g. "3,5" or "3.5"
	quantityRegex   = regexp.MustCompile(`^\d+([.,]\d+)?$`)
	metalIDRegex    = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)
	safeStringRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,!?@#$%&*()+=:;'"<>\/\[\]{}|\\~\x60]+$`)
)

func validateQuantity(fl validator.FieldLevel) bool {
	return quantityRegex.MatchString(fl.Field().String())
}

func validateAuditResult(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "OK" || value == "NOK"
}

func validatePriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "LOW" || value == "NORMAL" || value == "URGENT"
}

func validateFilterMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "TODAY", "YESTERDAY", "WEEK", "MONTH", "CUSTOM":
		return true
	}
	return false
}

func validateSourceFilter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ALL", "PROD", "LOG":
		return true
	}
	return false
}

func validateShiftFilter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ALL", "DAY", "NIGHT":
		return true
	}
	return false
}

func validateMetalID(fl validator.FieldLevel) bool {
	return metalIDRegex.MatchString(fl.Field().String())
}

func validateSafeString(fl validator.FieldLevel) bool {
	return safeStringRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			fields[field] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "quantity":
		return "must be a decimal number (comma or dot separator)"
	case "audit_result":
		return "must be OK or NOK"
	case "priority":
		return "must be one of: LOW, NORMAL, URGENT"
	case "filter_mode":
		return "must be one of: TODAY, YESTERDAY, WEEK, MONTH, CUSTOM"
	case "source_filter":
		return "must be one of: ALL, PROD, LOG"
	case "shift_filter":
		return "must be one of: ALL, DAY, NIGHT"
	case "metal_id":
		return "must be a valid metal identifier (lowercase alphanumeric)"
	case "safe_string":
		return "contains invalid characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	v := GetValidator()
	if err := v.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}

// SanitizeString removes potentially dangerous characters from a string
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Trim whitespace
	s = strings.TrimSpace(s)

	return s
}

// InputSanitizer middleware sanitizes string inputs
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Sanitize query parameters
		query := c.Request.URL.Query()
		for key, values := range query {
			for i, v := range values {
				values[i] = SanitizeString(v)
			}
			query[key] = values
		}
		c.Request.URL.RawQuery = query.Encode()

		c.Next()
	}
}

// ContentType middleware ensures proper content type for POST/PUT/PATCH
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" || c.Request.Method == "PATCH" {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" || !strings.HasPrefix(contentType, "application/json") {
				// Allow empty body for some endpoints
				if c.Request.ContentLength > 0 {
					AbortWithAppError(c, &errors.AppError{
						Code:       "INVALID_CONTENT_TYPE",
						Message:    "Content-Type must be application/json",
						HTTPStatus: 415,
					})
					return
				}
			}
		}
		c.Next()
	}
}
