package certificates

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHoursUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Hours
		wantErr bool
	}{
		{name: "integer", input: `10`, want: "10"},
		{name: "fraction", input: `10.5`, want: "10.5"},
		{name: "float without fraction", input: `12.0`, want: "12"},
		{name: "string", input: `"10"`, want: "10"},
		{name: "string is trimmed", input: `"  7 "`, want: "7"},
		{name: "zero is missing", input: `0`, want: ""},
		{name: "string zero is present", input: `"0"`, want: "0"},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Hours
			err := json.Unmarshal([]byte(tt.input), &h)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}
}

func TestCertificateRequestDecode(t *testing.T) {
	var req CertificateRequest
	err := json.Unmarshal([]byte(`{"name":"Jane Doe","duration":10,"organization":"Red Cross","template_type":"achievement","style":"minimal"}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", req.Name)
	assert.Equal(t, Hours("10"), req.Duration)
	assert.Equal(t, "Red Cross", req.Organization)
	assert.Equal(t, TemplateAchievement, req.TemplateType)
	assert.Equal(t, StyleMinimal, req.Style)
}

func TestCertificateRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       CertificateRequest
		wantField string
	}{
		{name: "valid", req: CertificateRequest{Name: "Jane", Duration: "10"}},
		{name: "missing name", req: CertificateRequest{Duration: "10"}, wantField: "name"},
		{name: "blank name", req: CertificateRequest{Name: "   ", Duration: "10"}, wantField: "name"},
		{name: "missing duration", req: CertificateRequest{Name: "Jane"}, wantField: "duration"},
		{name: "name checked first", req: CertificateRequest{}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, "Missing required field: "+tt.wantField, err.Error())
		})
	}
}

func TestCertificateRequestValidateProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		duration := rapid.String().Draw(t, "duration")
		req := CertificateRequest{Name: name, Duration: Hours(duration)}

		err := req.Validate()
		switch {
		case strings.TrimSpace(name) == "":
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "name" {
				t.Fatalf("blank name %q: got %v", name, err)
			}
		case strings.TrimSpace(duration) == "":
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "duration" {
				t.Fatalf("blank duration %q: got %v", duration, err)
			}
		default:
			if err != nil {
				t.Fatalf("unexpected error for %q/%q: %v", name, duration, err)
			}
		}
	})
}

func TestStyleAndTemplateValid(t *testing.T) {
	for _, s := range Styles() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Style("fancy").Valid())

	for _, tt := range TemplateTypes() {
		assert.True(t, tt.Valid(), tt)
	}
	assert.False(t, TemplateType("graduation").Valid())
}
