package reqvalidation_test

import (
	"errors"
	"strings"
	"testing"

	v "github.com/Gobd/reqvalidation"
	"github.com/Gobd/reqvalidation/transform"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Test types ============

type valTag struct {
	Label string `json:"label"`
}

func (t *valTag) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&t.Label, v.Required, v.Length(1, 20)),
	}
}

type valTagIndex map[string]valTag

type valAddress struct {
	City string `json:"city"`
}

func (a *valAddress) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&a.City, v.Required),
	}
}

func (a *valAddress) Normalize() {
	a.City = strings.ToUpper(a.City)
}

type valContact struct {
	Name      string       `json:"name"`
	Addresses []valAddress `json:"addresses"`
	Tags      []*valTag    `json:"tags"`
}

func (c *valContact) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.Name, v.Required),
		v.Field(&c.Addresses),
		v.Field(&c.Tags),
	}
}

func (c *valContact) Normalize() {
	transform.StructTrimSpace(c)
}

type valAudit struct {
	CreatedBy string `json:"createdBy"`
}

func (a *valAudit) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&a.CreatedBy, v.Required),
	}
}

type valAudited struct {
	valAudit
	Title string `json:"title"`
}

func (a *valAudited) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&a.valAudit),
		v.Field(&a.Title, v.Required),
	}
}

type valMode string

func (m valMode) ValueRules() []v.Rule {
	return []v.Rule{v.In(valMode("development"), valMode("production"))}
}

type valPriority int

func (p valPriority) ValueRules() []v.Rule {
	return []v.Rule{v.Min(1), v.Max(5)}
}

type valJob struct {
	Mode     valMode     `json:"mode"`
	Priority valPriority `json:"priority"`
}

func (j *valJob) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&j.Mode, v.Required),
		v.Field(&j.Priority),
	}
}

// ============ Tests ============

func TestValidate_Ruler(t *testing.T) {
	assert.NoError(t, v.Validate(&valTag{Label: "go"}))

	err := v.Validate(&valTag{})
	require.Error(t, err)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "label")
}

func TestValidate_NonRuler(t *testing.T) {
	assert.NoError(t, v.Validate("anything"))
	assert.NoError(t, v.Validate(nil))

	var p *valTag
	assert.NoError(t, v.Validate(p))
}

func TestValidate_SliceOfRulers(t *testing.T) {
	tags := []valTag{{Label: "a"}, {Label: ""}}
	err := v.Validate(&tags)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "1")
	assert.NotContains(t, errs, "0")

	var empty []valTag
	assert.NoError(t, v.Validate(&empty))
}

func TestValidate_MapOfRulers(t *testing.T) {
	idx := valTagIndex{"ok": {Label: "a"}, "bad": {Label: ""}}
	err := v.Validate(&idx)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "bad")
	assert.NotContains(t, errs, "ok")
}

func TestValidate_NestedChildren(t *testing.T) {
	c := valContact{
		Name:      "Ann",
		Addresses: []valAddress{{City: "Oslo"}, {City: ""}},
		Tags:      []*valTag{{Label: "x"}, nil, {Label: strings.Repeat("y", 21)}},
	}
	err := v.Validate(&c)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	require.Contains(t, errs, "addresses")
	require.Contains(t, errs, "tags")

	var addrErrs validation.Errors
	require.True(t, errors.As(errs["addresses"], &addrErrs))
	assert.Contains(t, addrErrs, "1")
}

func TestValidate_EmbeddedRulerIsFlattened(t *testing.T) {
	err := v.Validate(&valAudited{})
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "createdBy")
	assert.Contains(t, errs, "title")
}

func TestValidate_ValueRuler(t *testing.T) {
	assert.NoError(t, v.Validate(&valJob{Mode: "production", Priority: 3}))

	err := v.Validate(&valJob{Mode: "staging", Priority: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of 'development', 'production', got 'staging'")

	err = v.Validate(&valJob{Mode: "production", Priority: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be no greater than 5")

	err = v.Validate(&valJob{Priority: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be blank")
}

func TestValidateStruct_ExplicitRules(t *testing.T) {
	tag := valTag{Label: "toolong-toolong-toolong"}
	err := v.ValidateStruct(&tag, []*v.FieldRules{v.Field(&tag.Label, v.Length(1, 5))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}

func TestUnmarshalAndValidate_Normalizes(t *testing.T) {
	var c valContact
	err := v.UnmarshalAndValidate([]byte(`{"name":"  Ann ","addresses":[{"city":" oslo "}]}`), &c)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	// parent trims first, then the child upper-cases
	assert.Equal(t, "OSLO", c.Addresses[0].City)
}

func TestUnmarshalAndValidate_Errors(t *testing.T) {
	var c valContact
	assert.Error(t, v.UnmarshalAndValidate([]byte(`{`), &c))
	assert.Error(t, v.UnmarshalAndValidate([]byte(`{"name":"   "}`), &c))
}

func TestDecodeAndValidate(t *testing.T) {
	var tag valTag
	require.NoError(t, v.DecodeAndValidate(strings.NewReader(`{"label":"go"}`), &tag))
	assert.Equal(t, "go", tag.Label)

	assert.Error(t, v.DecodeAndValidate(strings.NewReader(`{"label":""}`), &tag))
}

func TestMissingRules(t *testing.T) {
	type partial struct {
		Covered  string `json:"covered"`
		Forgot   string `json:"forgot"`
		Skipped  string `json:"skipped" docs:"skip"`
		Ignored  string `json:"-"`
		Opted    string `json:"opted" validate:"-"`
		internal string
	}
	assert.Empty(t, v.MissingRules(&valContact{}))
	assert.Empty(t, v.MissingRules(&valAudited{}))
	assert.Nil(t, v.MissingRules(&partial{}))
	assert.Equal(t, []string{"forgot"}, v.MissingRules(&partialRuler{}))
	assert.Empty(t, v.MissingRules(&partialRuler{}, "Forgot"))
}

type partialRuler struct {
	Covered string `json:"covered"`
	Forgot  string `json:"forgot"`
	Skipped string `json:"skipped" docs:"skip"`
	Opted   string `json:"opted" validate:"-"`
}

func (p *partialRuler) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Covered, v.Required),
	}
}
