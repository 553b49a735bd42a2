package reqvalidation_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	v "github.com/Gobd/reqvalidation"
	"github.com/Gobd/reqvalidation/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objFilter struct {
	Active  *bool      `json:"active"`
	Limit   *int       `json:"limit"`
	Offset  uint8      `json:"offset"`
	Ratio   float64    `json:"ratio"`
	IDs     []int      `json:"ids"`
	Since   *time.Time `json:"since"`
	Keyword string     `json:"keyword"`
}

func (f *objFilter) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&f.Active, v.Optional),
		v.Field(&f.Limit, v.Optional, v.Min(1), v.Max(100)),
		v.Field(&f.Offset, v.Optional),
		v.Field(&f.Ratio, v.Optional, v.Max(1.0)),
		v.Field(&f.IDs, v.Optional, v.Length(0, 3)),
		v.Field(&f.Since, v.Optional),
		v.Field(&f.Keyword, v.Optional),
	}
}

type objLine struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

func (l *objLine) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&l.SKU, v.MinLength(1)),
		v.Field(&l.Qty, v.Min(1)),
	}
}

type objOrder struct {
	Email string    `json:"email"`
	Lines []objLine `json:"lines"`
	Note  *string   `json:"note"`
}

func (o *objOrder) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Email, is.Email),
		v.Field(&o.Lines, v.Length(1, 5)),
		v.Field(&o.Note, v.Optional, v.Length(1, 10)),
	}
}

func (o *objOrder) Normalize() {
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
}

var (
	filterSchema = v.NewObjectMust[objFilter]()
	orderSchema  = v.NewObjectMust[objOrder]()
)

func fieldErrors(t *testing.T, err error) v.FieldErrors {
	t.Helper()
	var fe v.FieldErrors
	require.True(t, errors.As(err, &fe), "want FieldErrors, got %v", err)
	return fe
}

func TestObject_TextCoercion(t *testing.T) {
	f, err := filterSchema.Decode(context.Background(), url.Values{
		"active":  {"true"},
		"limit":   {"10"},
		"offset":  {"255"},
		"ratio":   {"0.25"},
		"ids":     {"1", "2"},
		"since":   {"2024-01-02T03:04:05Z"},
		"keyword": {"go"},
	})
	require.NoError(t, err)
	require.NotNil(t, f.Active)
	assert.True(t, *f.Active)
	assert.Equal(t, 10, *f.Limit)
	assert.Equal(t, uint8(255), f.Offset)
	assert.Equal(t, 0.25, f.Ratio)
	assert.Equal(t, []int{1, 2}, f.IDs)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), f.Since.UTC())
	assert.Equal(t, "go", f.Keyword)
}

func TestObject_TextCoercionErrors(t *testing.T) {
	_, err := filterSchema.Decode(context.Background(), url.Values{
		"active": {"maybe"},
		"limit":  {"ten"},
		"offset": {"256"},
		"ratio":  {"x"},
		"ids":    {"1", "b"},
		"since":  {"yesterday"},
	})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 6)

	assert.Equal(t, v.FieldError{Field: "active", Code: v.CodeInvalidType, Message: "must be a boolean"}, fe[0])
	assert.Equal(t, v.FieldError{Field: "limit", Code: v.CodeInvalidType, Message: "must be an integer"}, fe[1])
	assert.Equal(t, v.FieldError{Field: "offset", Code: v.CodeInvalidType, Message: "is out of range"}, fe[2])
	assert.Equal(t, v.FieldError{Field: "ratio", Code: v.CodeInvalidType, Message: "must be a number"}, fe[3])
	assert.Equal(t, "ids.1", fe[4].Field)
	assert.Equal(t, "since", fe[5].Field)
	assert.True(t, strings.HasPrefix(fe[5].Message, "is invalid"))
}

func TestObject_RepeatedScalar(t *testing.T) {
	_, err := filterSchema.Decode(context.Background(), url.Values{"limit": {"1", "2"}})
	fe := fieldErrors(t, err)
	assert.Equal(t, "must be a single value", fe[0].Message)
}

func TestObject_EmptyInputUsesOptionalDefaults(t *testing.T) {
	for _, raw := range []any{nil, url.Values{}, []byte(""), []byte("  {} "), map[string]string{}} {
		f, err := filterSchema.Decode(context.Background(), raw)
		require.NoError(t, err, "%T", raw)
		assert.Nil(t, f.Limit)
		assert.Nil(t, f.Active)
	}
}

func TestObject_RuleErrors(t *testing.T) {
	_, err := filterSchema.Decode(context.Background(), url.Values{"limit": {"101"}, "ratio": {"2"}})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, v.FieldError{Field: "limit", Code: "validation_max_less_equal_than_required", Message: "must be no greater than 100"}, fe[0])
	assert.Equal(t, "ratio", fe[1].Field)

	_, err = filterSchema.Decode(context.Background(), url.Values{"limit": {"0"}})
	fe = fieldErrors(t, err)
	assert.Equal(t, "must be no less than 1", fe[0].Message)
}

type objPage struct {
	Page int    `json:"page"`
	Sort string `json:"sort"`
}

func (p *objPage) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Page, v.Optional, v.Min(1)),
		v.Field(&p.Sort, v.Optional, v.MinLength(3)),
	}
}

type objNamed struct {
	Name string `json:"name"`
}

func (n *objNamed) Rules() []*v.FieldRules {
	return []*v.FieldRules{v.Field(&n.Name, v.MinLength(3))}
}

func TestObject_AbsentOptionalSkipsRules(t *testing.T) {
	s := v.NewObjectMust[objPage]()
	for _, raw := range []any{url.Values{}, []byte(`{"page":null}`), map[string]any{"sort": []string(nil)}} {
		p, err := s.Decode(context.Background(), raw)
		require.NoError(t, err, "%T", raw)
		assert.Zero(t, p.Page)
		assert.Empty(t, p.Sort)
	}

	_, err := s.Decode(context.Background(), url.Values{"page": {"0"}, "sort": {"ab"}})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, "page", fe[0].Field)
	assert.Equal(t, "must be no less than 1", fe[0].Message)
	assert.Equal(t, "sort", fe[1].Field)
}

func TestObject_EmptySliceMemberIsAbsent(t *testing.T) {
	_, err := v.NewObjectMust[objNamed]().Decode(context.Background(), map[string]any{"name": []string{}})
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, v.FieldError{Field: "name", Code: v.CodeRequired, Message: "is required"}, fe[0])
}

func TestObject_JSON(t *testing.T) {
	o, err := orderSchema.Decode(context.Background(), []byte(`{"email":" Ann@Example.com ","lines":[{"sku":"a","qty":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", o.Email)
	assert.Equal(t, []objLine{{SKU: "a", Qty: 2}}, o.Lines)
	assert.Nil(t, o.Note)
}

func TestObject_JSONReaderAndMap(t *testing.T) {
	o, err := orderSchema.Decode(context.Background(), strings.NewReader(`{"email":"a@b.io","lines":[{"sku":"x","qty":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", o.Email)

	o, err = orderSchema.Decode(context.Background(), map[string]any{
		"email": "a@b.io",
		"lines": []map[string]any{{"sku": "x", "qty": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, o.Lines[0].Qty)
}

func TestObject_JSONIsStrictAboutTypes(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`{"email":42,"lines":[{"sku":"x","qty":"1"}]}`))
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, v.FieldError{Field: "email", Code: v.CodeInvalidType, Message: "must be a string"}, fe[0])
	assert.Equal(t, "lines.qty", fe[1].Field)
	assert.Equal(t, "must be an integer", fe[1].Message)
}

func TestObject_Null(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`{"email":null,"lines":[{"sku":"x","qty":1}],"note":null}`))
	fe := fieldErrors(t, err)
	require.Len(t, fe, 1)
	assert.Equal(t, v.FieldError{Field: "email", Code: v.CodeInvalidType, Message: "must not be null"}, fe[0])
}

func TestObject_ErrorOrderAndNestedPaths(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`{"lines":[{"sku":"ok","qty":1},{"sku":"","qty":0}],"note":""}`))
	fe := fieldErrors(t, err)
	require.Len(t, fe, 4)
	assert.Equal(t, v.FieldError{Field: "email", Code: v.CodeRequired, Message: "is required"}, fe[0])
	// nested members are sorted by name
	assert.Equal(t, "lines.1.qty", fe[1].Field)
	assert.Equal(t, "lines.1.sku", fe[2].Field)
	assert.Equal(t, "note", fe[3].Field)
	assert.Equal(t, "the length must be between 1 and 10", fe[3].Message)
}

func TestObject_PresenceWinsOverRules(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`{}`))
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, "email", fe[0].Field)
	assert.Equal(t, v.CodeRequired, fe[0].Code)
	assert.Equal(t, "lines", fe[1].Field)
	assert.Equal(t, v.CodeRequired, fe[1].Code)
}

func TestObject_UnknownMembers(t *testing.T) {
	body := []byte(`{"email":"a@b.io","lines":[{"sku":"x","qty":1}],"zeta":1,"alpha":true}`)

	_, err := orderSchema.Decode(context.Background(), body)
	require.NoError(t, err)

	_, err = orderSchema.Strict().Decode(context.Background(), body)
	fe := fieldErrors(t, err)
	require.Len(t, fe, 2)
	assert.Equal(t, v.FieldError{Field: "alpha", Code: v.CodeUnknownField, Message: "is not allowed"}, fe[0])
	assert.Equal(t, "zeta", fe[1].Field)
}

func TestObject_NotAnObject(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`[1,2]`))
	fe := fieldErrors(t, err)
	assert.Equal(t, v.FieldErrors{{Field: "", Code: v.CodeNotObject, Message: "must be a JSON object"}}, fe)
}

func TestObject_UnexpectedInput(t *testing.T) {
	_, err := orderSchema.Decode(context.Background(), []byte(`{"email":`))
	require.Error(t, err)
	var fe v.FieldErrors
	assert.False(t, errors.As(err, &fe))

	_, err = orderSchema.Decode(context.Background(), 42)
	assert.ErrorIs(t, err, v.ErrUnsupportedInput)

	type withMap struct {
		M map[string]int `json:"m"`
	}
	_, err = v.NewObjectMust[withMap]().Decode(context.Background(), url.Values{"m": {"1"}})
	assert.ErrorIs(t, err, v.ErrUnsupportedKind)
}

func TestObject_Idempotent(t *testing.T) {
	first, err := orderSchema.Parse(context.Background(), []byte(`{"email":"A@B.io","lines":[{"sku":"x","qty":1}]}`))
	require.NoError(t, err)

	second, err := orderSchema.Parse(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	o := first.(objOrder)
	third, err := orderSchema.Parse(context.Background(), &o)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestObject_TypedInputIsValidated(t *testing.T) {
	_, err := orderSchema.Parse(context.Background(), objOrder{Email: "nope", Lines: []objLine{{SKU: "x", Qty: 1}}})
	fe := fieldErrors(t, err)
	assert.Equal(t, "email", fe[0].Field)
}

func TestNewObject_NotAStruct(t *testing.T) {
	_, err := v.NewObject[int]()
	assert.Error(t, err)
	assert.Panics(t, func() { v.NewObjectMust[[]string]() })
}

func TestObject_Fields(t *testing.T) {
	docs, err := orderSchema.Fields()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "email", docs[0].Name)
	assert.True(t, docs[0].Required)
	assert.False(t, docs[2].Required)

	ref, err := orderSchema.SchemaRef()
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "lines"}, ref.Value.Required)
}
