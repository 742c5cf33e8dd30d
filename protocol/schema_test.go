package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string
	Count   int
	Share   float64
	On      bool
	At      time.Time
	Kind    string
	Opt     *float64
	Tags    []string
	Mode    RunMode
	Inner   inner
	Maybe   *inner
	Entries []inner
}

type inner struct {
	ID int
}

func sampleSchema() *Schema[sample] {
	in := NewSchema[inner]("inner").Int("id", func(i *inner) *int { return &i.ID }, Required())
	s := NewSchema[sample]("sample").
		Text("name", func(v *sample) *string { return &v.Name }, Required()).
		Int("count", func(v *sample) *int { return &v.Count }).
		Float("share", func(v *sample) *float64 { return &v.Share }).
		Bool("on", func(v *sample) *bool { return &v.On }).
		Time("at", func(v *sample) *time.Time { return &v.At }).
		Attr("kind", func(v *sample) *string { return &v.Kind }).
		FloatPtr("opt", func(v *sample) **float64 { return &v.Opt }).
		Strings("tag", func(v *sample) *[]string { return &v.Tags })
	Enum(s, "mode", func(v *sample) *RunMode { return &v.Mode })
	Nest(s, "inner", in, func(v *sample) *inner { return &v.Inner })
	NestPtr(s, "maybe", in, func(v *sample) **inner { return &v.Maybe })
	Repeat(s, "entry", in, func(v *sample) *[]inner { return &v.Entries })
	return s
}

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	n, err := Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

func TestSchemaDecodesAllKinds(t *testing.T) {
	doc := `<sample kind="x">
<entry><id>1</id></entry>
<tag>a</tag>
<mode>2</mode>
<on/>
<name>job</name>
<count> 7 </count>
<share>0.25</share>
<at>1700000000</at>
<opt>3.5</opt>
<tag>b</tag>
<inner><id>9</id></inner>
<entry><id>2</id></entry>
<unknown><deep/></unknown>
</sample>`

	got, err := sampleSchema().Decode(mustParse(t, doc))
	require.NoError(t, err)

	assert.Equal(t, "job", got.Name)
	assert.Equal(t, 7, got.Count)
	assert.Equal(t, 0.25, got.Share)
	assert.True(t, got.On)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.At)
	assert.Equal(t, "x", got.Kind)
	require.NotNil(t, got.Opt)
	assert.Equal(t, 3.5, *got.Opt)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, RunModeAuto, got.Mode)
	assert.Equal(t, inner{ID: 9}, got.Inner)
	assert.Nil(t, got.Maybe)
	assert.Equal(t, []inner{{ID: 1}, {ID: 2}}, got.Entries)
}

func TestSchemaMissingOptionalIsZero(t *testing.T) {
	got, err := sampleSchema().Decode(mustParse(t, "<sample><name>n</name></sample>"))
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "n"}, got)
}

func TestSchemaMissingRequired(t *testing.T) {
	_, err := sampleSchema().Decode(mustParse(t, "<sample><count>1</count></sample>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "sample.name", pe.Field)
}

func TestSchemaMissingRequiredInRepeated(t *testing.T) {
	_, err := sampleSchema().Decode(mustParse(t, "<sample><name>n</name><entry><id>1</id></entry><entry/></sample>"))
	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindMissingField, pe.Kind)
	assert.Equal(t, "sample.entry[1].id", pe.Field)
}

func TestSchemaBadScalar(t *testing.T) {
	_, err := sampleSchema().Decode(mustParse(t, "<sample><name>n</name><count>many</count></sample>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "sample.count", pe.Field)
}

func TestSchemaWrongElement(t *testing.T) {
	_, err := sampleSchema().Decode(mustParse(t, "<other/>"))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestSchemaFlags(t *testing.T) {
	s := NewSchema[sample]("sample").Bool("on", func(v *sample) *bool { return &v.On })
	cases := map[string]bool{
		"<sample><on/></sample>":        true,
		"<sample><on>1</on></sample>":   true,
		"<sample><on>0</on></sample>":   false,
		"<sample><on> 0 </on></sample>": false,
		"<sample></sample>":             false,
	}
	for doc, want := range cases {
		got, err := s.Decode(mustParse(t, doc))
		require.NoError(t, err, doc)
		assert.Equal(t, want, got.On, doc)
	}
}

func TestSchemaTransparentWrapper(t *testing.T) {
	doc := `<projects><project>
<master_url>https://example.org/</master_url>
<ifteam><team_name>crunchers</team_name></ifteam>
<gui_urls><gui_url><name>Forum</name><url>https://example.org/forum</url></gui_url></gui_urls>
</project></projects>`

	got, err := ProjectListSchema.Decode(mustParse(t, doc))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "crunchers", got[0].TeamName)
	require.Len(t, got[0].GuiURLs, 1)
	assert.Equal(t, "Forum", got[0].GuiURLs[0].Name)
}

func TestSchemaFieldsAreDeclarative(t *testing.T) {
	fields := sampleSchema().Fields()
	require.NotEmpty(t, fields)
	assert.Equal(t, FieldSpec{Name: "name", Kind: "text", Required: true}, fields[0])
	assert.Equal(t, FieldSpec{Name: "kind", Kind: "text", Attr: true}, fields[5])
	assert.Equal(t, FieldSpec{Name: "entry", Kind: "element:inner", Repeated: true}, fields[len(fields)-1])
}
