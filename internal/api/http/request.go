package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/utils"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body into dst and runs its validate tags. The
// returned error is always non-nil so handlers can add their own checks
// before testing HasErrors.
func bind(r *http.Request, dst any) *domain.ValidationError {
	verr := &domain.ValidationError{Message: "Validation error"}
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			verr.Add("body", "The request body must be valid JSON.")
			return verr
		}
	}
	return check(dst, verr)
}

// check runs the validate tags of v and appends failures to verr.
func check(v any, verr *domain.ValidationError) *domain.ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ReplaceAll(fe.Field(), "_", " ")
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "url":
		return fmt.Sprintf("The %s format is invalid.", name)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format Y-m-d.", name)
	case "min":
		if isString {
			return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", name, fe.Param())
	}
	return fmt.Sprintf("The %s is invalid.", name)
}

// pathID reads a positive integer mux variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.NotFoundError{Entity: "Resource", ID: raw}
	}
	return id, nil
}

// page reads ?page and ?per_page.
func page(r *http.Request, defaultSize int) domain.Page {
	q := r.URL.Query()
	n, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("per_page"))
	return domain.NewPage(n, size, defaultSize)
}

// query collects query-string conversion failures as field errors.
type query struct {
	values map[string][]string
	verr   *domain.ValidationError
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query(), verr: &domain.ValidationError{Message: "Validation error"}}
}

func (q *query) str(key string) string {
	if v, ok := q.values[key]; ok && len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *query) has(key string) bool {
	return q.str(key) != ""
}

func (q *query) integer(key string) int64 {
	s := q.str(key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		q.verr.Add(key, fmt.Sprintf("The %s must be an integer.", strings.ReplaceAll(key, "_", " ")))
	}
	return n
}

func (q *query) date(key string) *time.Time {
	s := q.str(key)
	if s == "" {
		return nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		q.verr.Add(key, fmt.Sprintf("The %s is not a valid date.", strings.ReplaceAll(key, "_", " ")))
		return nil
	}
	return &t
}

func (q *query) cents(key string) *int64 {
	s := q.str(key)
	if s == "" {
		return nil
	}
	c, err := utils.ParseAmount(s)
	if err != nil {
		q.verr.Add(key, fmt.Sprintf("The %s must be a number.", strings.ReplaceAll(key, "_", " ")))
		return nil
	}
	return &c
}

func (q *query) boolean(key string) *bool {
	s := q.str(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.verr.Add(key, fmt.Sprintf("The %s field must be true or false.", strings.ReplaceAll(key, "_", " ")))
		return nil
	}
	return &b
}

func (q *query) err() error {
	if q.verr.HasErrors() {
		return q.verr
	}
	return nil
}

// parseDay parses a validated yyyy-mm-dd field. Empty input yields the zero time.
func parseDay(s string) time.Time {
	t, _ := domain.ParseDate(s)
	return t
}

// dateRange parses start_date and end_date, requiring end after start.
func dateRange(start, end string, verr *domain.ValidationError) domain.DateRange {
	r := domain.DateRange{Start: parseDay(start), End: parseDay(end)}
	if !r.Start.IsZero() && !r.End.IsZero() && !r.End.After(r.Start) {
		verr.Add("end_date", "The end date must be a date after start date.")
	}
	return r
}
