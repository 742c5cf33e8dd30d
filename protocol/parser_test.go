package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree(t *testing.T) {
	doc := `<?xml version="1.0" encoding="ISO-8859-1" ?>
<boinc_gui_rpc_reply>
  <!-- status -->
  <cc_status kind="core">
    <network_status>0</network_status>
    <body><![CDATA[ <raw> ]]></body>
    <flag/>
  </cc_status>
</boinc_gui_rpc_reply>`

	root, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "boinc_gui_rpc_reply", root.Name)
	assert.Empty(t, root.Text)
	require.Len(t, root.Children, 1)

	st := root.Child("cc_status")
	require.NotNil(t, st)
	kind, ok := st.Attr("kind")
	assert.True(t, ok)
	assert.Equal(t, "core", kind)
	require.Len(t, st.Children, 3)
	assert.Equal(t, "0", st.Child("network_status").Value())
	assert.Equal(t, " <raw> ", st.Child("body").Text)
	assert.True(t, st.Child("flag").Empty())
	assert.Nil(t, st.Child("missing"))
}

func TestParseRepeatedSiblingsKeepOrder(t *testing.T) {
	root, err := Parse([]byte("<msgs><msg>1</msg><other/><msg>2</msg><msg>3</msg></msgs>"))
	require.NoError(t, err)
	var got []string
	for _, n := range root.ChildrenNamed("msg") {
		got = append(got, n.Value())
	}
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"whitespace":      "  \n ",
		"not markup":      "hello world",
		"unclosed":        "<a><b></b>",
		"mismatched":      "<a></b>",
		"bad entity":      "<a>&nope;</a>",
		"two roots":       "<a/><b/>",
		"trailing text":   "<a/>junk",
		"duplicate attr":  `<a x="1" x="2"/>`,
		"mixed content":   "<a>text<b/></a>",
		"only a pi":       "<?foo?>",
		"unescaped amper": "<a>x & y</a>",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}
