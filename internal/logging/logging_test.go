package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"info", logrus.InfoLevel, false},
		{" DEBUG ", logrus.DebugLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	require.NoError(t, configure(l, &buf, "warn", "json"))
	l.Info("hidden")
	l.WithField("machine", "peerpods").Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "peerpods", entry["machine"])
	assert.Equal(t, "warning", entry["level"])
}

func TestConfigureText(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	require.NoError(t, configure(l, &buf, "debug", ""))
	l.Debug("details")
	assert.Contains(t, buf.String(), "details")
	assert.NotContains(t, buf.String(), "time=")
}

func TestConfigureInvalidFormat(t *testing.T) {
	err := configure(logrus.New(), &bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
