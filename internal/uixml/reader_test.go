// SPDX-License-Identifier: MIT
package uixml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_RoundTrip(t *testing.T) {
	cases := map[string]*ElementConfig{
		"dynamic panel": {
			ElementsName: "HUD",
			ElementName:  "MainPanel",
			GFxFileName:  "hud.gfx",
			GFxLayer:     3,
			HAlign:       HAlignLeft,
			VAlign:       VAlignTop,
			Functions:    []Runnable{{Name: "OnShow", Parameters: []Parameter{{Name: "visible", Type: ParamBool}}}},
			Events:       []Runnable{{Name: "OnClick"}},
		},
		"mixed runnables": hudConfig(),
		"escaped values": {
			ElementsName: `A<B> & "C" 'D'`,
			ElementName:  "Tab\tName",
			VAlign:       VAlignBottom,
			HAlign:       HAlignRight,
			Events: []Runnable{{Name: "OnText", Parameters: []Parameter{
				{Name: "text", Description: "multi\nline", Type: ParamString},
			}}},
		},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, in))

			got, err := Read(&buf)
			require.NoError(t, err)

			want := *in
			want.GFxFileName = "" // write-only
			if diff := cmp.Diff(&want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRead_FullscreenRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fullscreenConfig()))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, got.Fullscreen)
	// Alignment is not on the wire in fullscreen mode.
	assert.Equal(t, HAlignCenter, got.HAlign)
	assert.Equal(t, VAlignCenter, got.VAlign)
	assert.Equal(t, `Menus & "Pause"`, got.ElementsName)
}

func TestRead_LegacyFile(t *testing.T) {
	res, err := ReadFileWithWarnings(filepath.Join("testdata", "legacy.xml"))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	want := &ElementConfig{
		ElementsName: "Menus",
		ElementName:  "MainMenu",
		GFxLayer:     2,
		HAlign:       HAlignRight,
		VAlign:       VAlignBottom,
		Functions: []Runnable{
			{Name: "AddButton", Parameters: []Parameter{
				{Name: "id", Description: "Button id", Type: ParamInt},
				{Name: "caption", Description: "Caption text", Type: ParamString},
				{Name: "payload", Description: "Opaque data"},
			}},
			{Name: "Clear"},
		},
		Events: []Runnable{
			{Name: "OnButton", Parameters: []Parameter{{Name: "id", Description: "Button id", Type: ParamInt}}},
		},
	}
	if diff := cmp.Diff(want, res.Config); diff != "" {
		t.Errorf("legacy mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_GFxLayer(t *testing.T) {
	tests := []struct {
		name    string
		layer   string
		want    uint
		wantErr bool
	}{
		{"numeric", "12", 12, false},
		{"zero", "0", 0, false},
		{"leading plus", "+12", 12, false},
		{"double plus", "++12", 0, true},
		{"letters", "abc", 0, true},
		{"negative", "-1", 0, true},
		{"fraction", "1.5", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<UIElements name="a"><UIElement name="b"><GFx file="x.gfx" layer="` + tt.layer + `"/></UIElement></UIElements>`
			cfg, err := Read(strings.NewReader(doc))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidLayer)
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, "GFx", pe.Tag)
				assert.Equal(t, "layer", pe.Attr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GFxLayer)
		})
	}
}

func TestRead_AlignmentIsCaseInsensitive(t *testing.T) {
	for _, v := range []string{"top", "TOP", "Top", "tOp"} {
		doc := `<UIElements name="a"><UIElement name="b"><Align mode="dynamic" valign="` + v + `" halign="LEFT"/></UIElement></UIElements>`
		cfg, err := Read(strings.NewReader(doc))
		require.NoError(t, err, v)
		assert.Equal(t, VAlignTop, cfg.VAlign, v)
		assert.Equal(t, HAlignLeft, cfg.HAlign, v)
		assert.False(t, cfg.Fullscreen)
	}
}

func TestRead_UnrecognizedAlignmentKeepsPrior(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b">
		<Align mode="dynamic" valign="top" halign="right"/>
		<Align mode="dynamic" valign="middle" halign="sideways"/>
	</UIElement></UIElements>`

	res, err := ReadWithWarnings(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, VAlignTop, res.Config.VAlign)
	assert.Equal(t, HAlignRight, res.Config.HAlign)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "valign", res.Warnings[0].Attr)
	assert.Equal(t, "middle", res.Warnings[0].Value)

	_, err = Read(strings.NewReader(doc), WithStrict(true))
	assert.ErrorIs(t, err, ErrStrict)
}

func TestRead_FullscreenSkipsAlignmentAttributes(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b"><Align mode="fullscreen" scale="1" maximize="1"/></UIElement></UIElements>`
	cfg, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, cfg.Fullscreen)
}

func TestRead_DynamicAlignRequiresBothAxes(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b"><Align mode="dynamic" valign="top"/></UIElement></UIElements>`
	_, err := Read(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAttribute)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "halign", pe.Attr)
}

func TestRead_OrphanParamIsDropped(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b">
		<functions>
			<param name="lost" desc="no owner" type="int"/>
			<function name="f"><param name="kept"/></function>
		</functions>
	</UIElement></UIElements>`

	res, err := ReadWithWarnings(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Config.Functions, 1)
	assert.Equal(t, []Parameter{{Name: "kept"}}, res.Config.Functions[0].Parameters)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "param", res.Warnings[0].Tag)
	assert.Equal(t, "lost", res.Warnings[0].Value)

	_, err = Read(strings.NewReader(doc), WithStrict(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStrict)
}

func TestRead_SameNamedRunnablesKeepTheirOwnParams(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b"><functions>
		<function name="Set"><param name="first"/></function>
		<function name="Set"><param name="second"/></function>
	</functions></UIElement></UIElements>`

	cfg, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cfg.Functions, 2)
	assert.Equal(t, []Parameter{{Name: "first"}}, cfg.Functions[0].Parameters)
	assert.Equal(t, []Parameter{{Name: "second"}}, cfg.Functions[1].Parameters)
}

func TestRead_ParamFollowsLastOpenedRunnable(t *testing.T) {
	// The cursor switches lists with the last opened runnable and stays on it
	// after the runnable closes.
	doc := `<UIElements name="a"><UIElement name="b">
		<functions><function name="f"/></functions>
		<events><event name="e"/></events>
		<param name="late"/>
	</UIElement></UIElements>`

	cfg, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, cfg.Functions[0].Parameters)
	assert.Equal(t, []Parameter{{Name: "late"}}, cfg.Events[0].Parameters)
}

func TestRead_ParamOptionalAttributes(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b"><events><event name="e">
		<param name="noDesc" type="float"/>
		<param name="weird" desc="d" type="vector3"/>
		<param name="upper" type="BOOL"/>
	</event></events></UIElement></UIElements>`

	res, err := ReadWithWarnings(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Parameter{
		{Name: "noDesc", Type: ParamFloat},
		{Name: "weird", Description: "d", Type: ParamAny},
		{Name: "upper", Type: ParamBool},
	}, res.Config.Events[0].Parameters)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "type", res.Warnings[0].Attr)
}

func TestRead_RunnableOutsideListWarns(t *testing.T) {
	doc := `<UIElements name="a"><UIElement name="b"><function name="loose"/></UIElement></UIElements>`
	res, err := ReadWithWarnings(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Config.Functions, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "outside of its list")
}

func TestRead_MissingRequiredAttribute(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		tag  string
		attr string
	}{
		{"root name", `<UIElements/>`, "UIElements", "name"},
		{"element name", `<UIElements name="a"><UIElement/></UIElements>`, "UIElement", "name"},
		{"gfx layer", `<UIElements name="a"><UIElement name="b"><GFx file="f"/></UIElement></UIElements>`, "GFx", "layer"},
		{"align mode", `<UIElements name="a"><UIElement name="b"><Align/></UIElement></UIElements>`, "Align", "mode"},
		{"function name", `<UIElements name="a"><UIElement name="b"><functions><function/></functions></UIElement></UIElements>`, "function", "name"},
		{"param name", `<UIElements name="a"><UIElement name="b"><events><event name="e"><param desc="d"/></event></events></UIElement></UIElements>`, "param", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingAttribute)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.tag, pe.Tag)
			assert.Equal(t, tt.attr, pe.Attr)
			assert.Positive(t, pe.Line)
		})
	}
}

func TestRead_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unclosed element", `<UIElements name="a"><UIElement name="b">`},
		{"mismatched end tag", `<UIElements name="a"></UIElement>`},
		{"bad attribute quoting", `<UIElements name=a></UIElements>`},
		{"unknown entity", `<UIElements name="&nope;"></UIElements>`},
		{"internal entity declaration", `<?xml version="1.0"?>
<!DOCTYPE x [ <!ENTITY boom "kaboom"> ]>
<UIElements name="&boom;"></UIElements>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			var se *xml.SyntaxError
			assert.True(t, errors.As(err, &se), "expected wrapped *xml.SyntaxError, got %v", err)
		})
	}
}

func TestRead_SizeLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, hudConfig()))

	_, err := Read(bytes.NewReader(buf.Bytes()), WithMaxSize(int64(buf.Len()/2)))
	require.Error(t, err)

	_, err = Read(bytes.NewReader(buf.Bytes()), WithMaxSize(int64(buf.Len())))
	require.NoError(t, err)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestReadFile_WriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MainPanel.xml")
	require.NoError(t, WriteFile(path, hudConfig()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	want := hudConfig()
	want.GFxFileName = ""
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLayer(t *testing.T) {
	n, err := ParseLayer("7")
	require.NoError(t, err)
	assert.Equal(t, uint(7), n)

	_, err = ParseLayer("seven")
	assert.ErrorIs(t, err, ErrInvalidLayer)
}
