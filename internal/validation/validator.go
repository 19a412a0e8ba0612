// Package validation holds the declarative constraints for movie payloads and
// list parameters and evaluates them with go-playground/validator.
package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/v2/bson"

	"moviesapi/internal/config"
	"moviesapi/internal/model"
	"moviesapi/internal/query"
)

// Mode selects which movie constraints apply.
type Mode int

const (
	// ModeCreate requires a title.
	ModeCreate Mode = iota
	// ModeUpdate makes every field optional.
	ModeUpdate
)

type ruleCtxKey struct{}

// ruleCtx is what struct-level rules need beyond the field values.
type ruleCtx struct {
	mode         Mode
	titlePresent bool
}

// movieFields is the constraint table for movie payloads. Every field is
// optional at tag level; the create-only title requirement is a struct rule.
type movieFields struct {
	Title       *string  `json:"title" label:"Title" validate:"omitnil,min=1,max=200"`
	Director    *string  `json:"director" label:"Director" validate:"omitnil,max=100"`
	ReleaseYear *int     `json:"releaseYear" label:"Release year" validate:"omitnil,min=1800,max=2100"`
	Genre       *string  `json:"genre" label:"Genre" validate:"omitnil,max=50"`
	Rating      *float64 `json:"rating" label:"Rating" validate:"omitnil,min=1,max=10,onedecimal"`
}

// queryFields is the constraint table for list and search parameters.
type queryFields struct {
	Page      *int     `json:"page" label:"Page" validate:"omitnil,min=1"`
	Limit     *int     `json:"limit" label:"Limit" validate:"omitnil,min=1,maxpage"`
	SortBy    *string  `json:"sortBy" label:"sortBy" validate:"omitnil,sortfield"`
	SortOrder *string  `json:"sortOrder" label:"sortOrder" validate:"omitnil,oneof=asc desc"`
	Genre     *string  `json:"genre" label:"Genre" validate:"omitnil,max=50"`
	Director  *string  `json:"director" label:"Director" validate:"omitnil,max=100"`
	MinRating *float64 `json:"minRating" label:"Minimum rating" validate:"omitnil,min=1,max=10"`
	MaxRating *float64 `json:"maxRating" label:"Maximum rating" validate:"omitnil,min=1,max=10"`
	Year      *int     `json:"year" label:"Year" validate:"omitnil,min=1800,max=2100"`
}

// messageOverrides replace the generic translation for specific field/tag pairs.
var messageOverrides = map[string]string{
	"Title.min":       "Title cannot be empty",
	"Title.max":       "Title cannot exceed 200 characters",
	"Director.max":    "Director name cannot exceed 100 characters",
	"Genre.max":       "Genre cannot exceed 50 characters",
	"ReleaseYear.min": "Release year must be after 1800",
	"Year.min":        "Year must be after 1800",
}

// sortableList renders query.SortableFields for error messages.
var sortableList = func() string {
	names := make([]string, len(query.SortableFields))
	for i, f := range query.SortableFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}()

// Validator evaluates the constraint tables. It is safe for concurrent use.
type Validator struct {
	v        *validator.Validate
	trans    ut.Translator
	paging   config.PaginationConfig
	movieOrd map[string]int
	queryOrd map[string]int
}

// New builds a Validator bound to the configured page sizes.
func New(paging config.PaginationConfig) (*Validator, error) {
	enLoc := en.New()
	trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}

	vd := &Validator{
		v:        v,
		trans:    trans,
		paging:   paging,
		movieOrd: fieldOrder(movieFields{}),
		queryOrd: fieldOrder(queryFields{}),
	}

	if err := v.RegisterValidation("onedecimal", oneDecimal); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("maxpage", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(paging.MaxPageSize)
	}); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("sortfield", func(fl validator.FieldLevel) bool {
		return query.IsSortable(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	v.RegisterStructValidationCtx(requireTitleOnCreate, movieFields{})

	for _, r := range []struct{ tag, text string }{
		{"required", "{0} is required"},
		{"min", "{0} must be at least {1}"},
		{"max", "{0} cannot exceed {1}"},
		{"oneof", "{0} must be one of [{1}]"},
		{"onedecimal", "{0} can have at most 1 decimal place"},
		{"maxpage", "{0} cannot exceed {1}"},
		{"sortfield", "{0} must be one of [{1}]"},
	} {
		if err := vd.registerTranslation(r.tag, r.text); err != nil {
			return nil, err
		}
	}
	return vd, nil
}

// Movie validates a decoded JSON body. Unknown keys are ignored, strings are
// trimmed and numeric strings coerced. On failure the error is an Errors value
// holding every violation.
func (vd *Validator) Movie(ctx context.Context, input map[string]any, mode Mode) (model.MoviePatch, error) {
	c := newCollector(vd.movieOrd)
	var in movieFields
	if raw, ok := input["title"]; ok {
		in.Title = coerceString(c, "Title", "Title", raw)
	}
	if raw, ok := input["director"]; ok {
		in.Director = coerceString(c, "Director", "Director", raw)
	}
	if raw, ok := input["releaseYear"]; ok {
		in.ReleaseYear = coerceInt(c, "ReleaseYear", "Release year", raw)
	}
	if raw, ok := input["genre"]; ok {
		in.Genre = coerceString(c, "Genre", "Genre", raw)
	}
	if raw, ok := input["rating"]; ok {
		in.Rating = coerceFloat(c, "Rating", "Rating", raw)
	}

	_, titlePresent := input["title"]
	rc := ruleCtx{mode: mode, titlePresent: titlePresent}
	vd.collect(c, vd.v.StructCtx(context.WithValue(ctx, ruleCtxKey{}, rc), in))
	if err := c.err(); err != nil {
		return model.MoviePatch{}, err
	}
	return model.MoviePatch{
		Title:       in.Title,
		Director:    in.Director,
		ReleaseYear: in.ReleaseYear,
		Genre:       in.Genre,
		Rating:      in.Rating,
	}, nil
}

// Pagination validates page and limit as received on the query string. Empty
// values take the defaults: page 1 and the configured default page size.
func (vd *Validator) Pagination(page, limit string) (query.Page, error) {
	p, err := vd.QueryParams(map[string]string{"page": page, "limit": limit})
	if err != nil {
		return query.Page{}, err
	}
	return p.Page, nil
}

// QueryParams validates the recognized list/search keys; other keys are
// dropped. Empty values count as absent.
func (vd *Validator) QueryParams(params map[string]string) (query.Params, error) {
	c := newCollector(vd.queryOrd)
	var in queryFields
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(params[key])
		return v, v != ""
	}

	if raw, ok := get("page"); ok {
		in.Page = coerceInt(c, "Page", "Page", raw)
	}
	if raw, ok := get("limit"); ok {
		in.Limit = coerceInt(c, "Limit", "Limit", raw)
	}
	if raw, ok := get("sortBy"); ok {
		in.SortBy = &raw
	}
	if raw, ok := get("sortOrder"); ok {
		in.SortOrder = &raw
	}
	if raw, ok := get("genre"); ok {
		in.Genre = &raw
	}
	if raw, ok := get("director"); ok {
		in.Director = &raw
	}
	if raw, ok := get("minRating"); ok {
		in.MinRating = coerceFloat(c, "MinRating", "Minimum rating", raw)
	}
	if raw, ok := get("maxRating"); ok {
		in.MaxRating = coerceFloat(c, "MaxRating", "Maximum rating", raw)
	}
	if raw, ok := get("year"); ok {
		in.Year = coerceInt(c, "Year", "Year", raw)
	}

	vd.collect(c, vd.v.Struct(in))
	if err := c.err(); err != nil {
		return query.Params{}, err
	}

	out := query.Params{
		Page:      query.Page{Page: 1, Limit: vd.paging.DefaultPageSize},
		Year:      in.Year,
		MinRating: in.MinRating,
		MaxRating: in.MaxRating,
	}
	if in.Page != nil {
		out.Page.Page = *in.Page
	}
	if in.Limit != nil {
		out.Page.Limit = *in.Limit
	}
	if in.SortBy != nil {
		out.SortBy = *in.SortBy
	}
	if in.SortOrder != nil {
		out.SortOrder = *in.SortOrder
	}
	if in.Genre != nil {
		out.Genre = *in.Genre
	}
	if in.Director != nil {
		out.Director = *in.Director
	}
	return out, nil
}

// Identifier reports whether id has the shape of a stored record id, a
// 24-character hexadecimal ObjectID, and returns its canonical lowercase
// form. Stores only ever see the canonical form.
func Identifier(id string) (string, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}

// RequiredParam trims value and reports whether anything is left.
func RequiredParam(value string) (string, bool) {
	v := strings.TrimSpace(value)
	return v, v != ""
}

func (vd *Validator) collect(c *collector, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.add("", err.Error())
		return
	}
	for _, fe := range verrs {
		if msg, ok := messageOverrides[fe.StructField()+"."+fe.Tag()]; ok {
			c.add(fe.StructField(), msg)
			continue
		}
		c.add(fe.StructField(), fe.Translate(vd.trans))
	}
}

func (vd *Validator) registerTranslation(tag, text string) error {
	return vd.v.RegisterTranslation(tag, vd.trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			param := fe.Param()
			switch tag {
			case "oneof":
				param = strings.Join(strings.Fields(param), ", ")
			case "maxpage":
				param = fmt.Sprint(vd.paging.MaxPageSize)
			case "sortfield":
				param = sortableList
			}
			msg, err := t.T(tag, fe.Field(), param)
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// requireTitleOnCreate reports a missing title. A title that is present but
// not a string already carries a type error and is not reported twice.
func requireTitleOnCreate(ctx context.Context, sl validator.StructLevel) {
	rc, _ := ctx.Value(ruleCtxKey{}).(ruleCtx)
	in := sl.Current().Interface().(movieFields)
	if rc.mode == ModeCreate && in.Title == nil && !rc.titlePresent {
		sl.ReportError(in.Title, "Title", "Title", "required", "")
	}
}

// oneDecimal accepts values with at most one fractional digit.
func oneDecimal(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	scaled := f * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func fieldOrder(v any) map[string]int {
	t := reflect.TypeOf(v)
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out[t.Field(i).Name] = i
	}
	return out
}
