package triggers

import (
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeldb/go-xmlstore/sax"
)

func productModelParameters() Parameters {
	return Parameters{
		"separator": []any{"|"},
		"path": []any{
			PathParam{
				XPath: `/content/properties/value[@key eq "product_model"]`,
				Extracts: []ExtractParam{
					{Index: 0, ElementName: "product_name"},
					{Index: 1, ElementName: "product_code"},
				},
			},
		},
	}
}

// runTrigger pushes the input document through the trigger and returns the
// rewritten document text.
func runTrigger(t *testing.T, params Parameters, input string) string {
	t.Helper()
	log := logger.Sugar.WithServiceName("trigger")

	trigger := &CSVExtractingTrigger{}
	require.NoError(t, trigger.Configure(log, "/db/products", params))
	require.NoError(t, trigger.Prepare(EventStore, "/db/products/p1.xml"))

	var out strings.Builder
	w := sax.NewWriter(&out)
	trigger.SetOutput(w, w)
	require.NoError(t, sax.NewDriver(trigger, trigger).Parse(strings.NewReader(input)))

	trigger.Finish(EventStore, "/db/products/p1.xml")
	return out.String()
}

func TestCSVExtractingTrigger(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	type args struct {
		input string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "matched predicate extracts child elements",
			args: args{
				input: `<content><properties><value key="product_model">SomeName|SomeCode</value></properties></content>`,
			},
			want: `<content><properties><value key="product_model">` +
				`<product_name>SomeName</product_name><product_code>SomeCode</product_code>` +
				`</value></properties></content>`,
		},
		{
			name: "predicate mismatch passes through unchanged",
			args: args{
				input: `<content><properties><value key="other">A|B</value></properties></content>`,
			},
			want: `<content><properties><value key="other">A|B</value></properties></content>`,
		},
		{
			name: "path mismatch passes through unchanged",
			args: args{
				input: `<content><value key="product_model">A|B</value></content>`,
			},
			want: `<content><value key="product_model">A|B</value></content>`,
		},
		{
			name: "missing trailing field is skipped",
			args: args{
				input: `<content><properties><value key="product_model">OnlyName</value></properties></content>`,
			},
			want: `<content><properties><value key="product_model">` +
				`<product_name>OnlyName</product_name>` +
				`</value></properties></content>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runTrigger(t, productModelParameters(), tt.args.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVExtractingTriggerIsIdempotent(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	input := `<content><properties><value key="product_model">SomeName|SomeCode</value></properties></content>`
	once := runTrigger(t, productModelParameters(), input)
	twice := runTrigger(t, productModelParameters(), once)
	assert.Equal(t, once, twice)
}

func TestCSVExtractingTriggerOrdersByIndex(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	// entries configured in descending index order must still emit ascending
	params := Parameters{
		"separator": []any{","},
		"path": []any{
			PathParam{
				XPath: "/row/cells",
				Extracts: []ExtractParam{
					{Index: 2, ElementName: "c"},
					{Index: 0, ElementName: "a"},
					{Index: 1, ElementName: "b"},
				},
			},
		},
	}
	got := runTrigger(t, params, `<row><cells>x,y,z</cells></row>`)
	assert.Equal(t, `<row><cells><a>x</a><b>y</b><c>z</c></cells></row>`, got)
}

func TestCSVExtractingTriggerSeparatorIsLiteral(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	// "." must split on the dot itself, not on any character
	params := Parameters{
		"separator": []any{"."},
		"path": []any{
			PathParam{
				XPath: "/v",
				Extracts: []ExtractParam{
					{Index: 0, ElementName: "major"},
					{Index: 1, ElementName: "minor"},
				},
			},
		},
	}
	got := runTrigger(t, params, `<v>1.2</v>`)
	assert.Equal(t, `<v><major>1</major><minor>2</minor></v>`, got)
}

func TestCSVExtractingTriggerConfigure(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("trigger")

	type args struct {
		parameters Parameters
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name:    "valid",
			args:    args{parameters: productModelParameters()},
			wantErr: false,
		},
		{
			name:    "missing separator",
			args:    args{parameters: Parameters{"path": []any{PathParam{XPath: "/a"}}}},
			wantErr: true,
		},
		{
			name: "two separators",
			args: args{parameters: Parameters{
				"separator": []any{"|", ","},
			}},
			wantErr: true,
		},
		{
			name: "separator of the wrong type",
			args: args{parameters: Parameters{
				"separator": []any{42},
			}},
			wantErr: true,
		},
		{
			name: "path of the wrong type",
			args: args{parameters: Parameters{
				"separator": []any{"|"},
				"path":      []any{"just a string"},
			}},
			wantErr: true,
		},
		{
			name: "non attribute predicate",
			args: args{parameters: Parameters{
				"separator": []any{"|"},
				"path":      []any{PathParam{XPath: "/a/b[position() eq 1]"}},
			}},
			wantErr: true,
		},
		{
			name: "predicate without eq",
			args: args{parameters: Parameters{
				"separator": []any{"|"},
				"path":      []any{PathParam{XPath: `/a/b[@key]`}},
			}},
			wantErr: true,
		},
		{
			name: "extract without element name",
			args: args{parameters: Parameters{
				"separator": []any{"|"},
				"path": []any{PathParam{
					XPath:    "/a/b",
					Extracts: []ExtractParam{{Index: 0}},
				}},
			}},
			wantErr: true,
		},
		{
			name: "negative extract index",
			args: args{parameters: Parameters{
				"separator": []any{"|"},
				"path": []any{PathParam{
					XPath:    "/a/b",
					Extracts: []ExtractParam{{Index: -1, ElementName: "x"}},
				}},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := &CSVExtractingTrigger{}
			err := trigger.Configure(log, "/db/products", tt.args.parameters)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTriggerConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}
