package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"eticket/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a validation failure, addressed by JSON path.
type FieldError struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

var registerOnce sync.Once

// RegisterValidation makes validator report JSON field names. Safe to call
// more than once.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// respondValidation writes the booking API's validation error shape.
func respondValidation(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func respondInternal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}

// bindJSON binds the body into dst and answers 400 itself on failure.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondValidation(c, fieldErrors(err))
		return false
	}
	return true
}

// fieldErrors flattens binding, decoding and domain validation failures.
func fieldErrors(err error) []FieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		domainErr domain.ValidationError
	)
	switch {
	case errors.As(err, &verrs):
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Path: namespacePath(fe.Namespace()), Message: tagMessage(fe)})
		}
		return out
	case errors.As(err, &typeErr):
		path := []any{}
		if typeErr.Field != "" {
			path = namespacePath("root." + typeErr.Field)
		}
		return []FieldError{{Path: path, Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type, typeErr.Value)}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldError{{Path: []any{}, Message: "Invalid JSON body"}}
	case errors.As(err, &domainErr):
		path := []any{}
		if domainErr.Field != "" {
			path = append(path, domainErr.Field)
		}
		msg := domainErr.Msg
		if msg == "" {
			msg = domainErr.Error()
		}
		return []FieldError{{Path: path, Message: msg}}
	default:
		return []FieldError{{Path: []any{}, Message: err.Error()}}
	}
}

// namespacePath turns "Input.passengers[2].name" into ["passengers", 2, "name"],
// dropping the root struct name.
func namespacePath(ns string) []any {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	out := []any{}
	for _, p := range parts {
		for p != "" {
			open := strings.IndexByte(p, '[')
			if open < 0 {
				out = append(out, p)
				break
			}
			if open > 0 {
				out = append(out, p[:open])
			}
			end := strings.IndexByte(p[open:], ']')
			if end < 0 {
				out = append(out, p[open:])
				break
			}
			idx := p[open+1 : open+end]
			if n, err := strconv.Atoi(idx); err == nil {
				out = append(out, n)
			} else {
				out = append(out, idx)
			}
			p = p[open+end+1:]
		}
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if isList {
			return fmt.Sprintf("Array must contain at least %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("Array must contain at most %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
