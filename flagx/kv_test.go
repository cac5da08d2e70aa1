package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: map[string]string{}},
		{name: "simple", pairs: []string{"server.port=9090"}, want: map[string]string{"server.port": "9090"}},
		{name: "trimmed", pairs: []string{" greeting = hello "}, want: map[string]string{"greeting": "hello"}},
		{name: "value with equals", pairs: []string{"dsn=user=a;pass=b"}, want: map[string]string{"dsn": "user=a;pass=b"}},
		{name: "empty value", pairs: []string{"flag="}, want: map[string]string{"flag": ""}},
		{name: "last wins", pairs: []string{"a=1", "a=2"}, want: map[string]string{"a": "2"}},
		{name: "missing separator", pairs: []string{"novalue"}, wantErr: true},
		{name: "empty key", pairs: []string{"=value"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValues(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
