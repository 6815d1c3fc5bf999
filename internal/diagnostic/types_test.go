package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = errors.New("sample failure")

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Error())

	d.AddInfo(CodeUnmapped, "no source member", "a.User -> b.UserDTO", "Nick", "Name", "Nickname")
	d.AddWarning(CodeConversionMiss, "string cannot become int", "a.User -> b.UserDTO", "Age")
	require.NoError(t, d.Error(), "only errors fail")

	var other Diagnostics
	other.AddError(CodeUnknownSourcePath, errSample, "a.User -> b.UserDTO", "City")
	d.Merge(other)

	require.True(t, d.HasErrors())

	err := d.Error()
	require.Error(t, err)
	assert.ErrorIs(t, err, errSample)
	assert.Equal(t, "[a.User -> b.UserDTO] City: [unknown-source-path] sample failure", err.Error())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)
	assert.Equal(t, "[a.User -> b.UserDTO] Nick: [unmapped] no source member (similar: Name, Nickname)", all[2].String())
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
