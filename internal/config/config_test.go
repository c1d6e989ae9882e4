package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		apiAddress string
		statePath  string
		lat        float64
		lng        float64
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				apiAddress: "http://localhost:5000/api",
				statePath:  "foodshare.db",
				lat:        41.0082,
				lng:        28.9784,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"FOODSHARE_API_ADDRESS": "http://localhost:9999/api",
				"FOODSHARE_STATE_PATH":  "/tmp/state.db",
				"FOODSHARE_LAT":         "47.4979",
				"FOODSHARE_LNG":         "19.0402",
			},
			flags: []string{},
			want: want{
				apiAddress: "http://localhost:9999/api",
				statePath:  "/tmp/state.db",
				lat:        47.4979,
				lng:        19.0402,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "http://localhost:7777/api",
				"-s", "flag-state.db",
				"-lat", "52.52",
				"-lng", "13.405",
			},
			want: want{
				apiAddress: "http://localhost:7777/api",
				statePath:  "flag-state.db",
				lat:        52.52,
				lng:        13.405,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"FOODSHARE_API_ADDRESS": "http://env:9000/api",
				"FOODSHARE_STATE_PATH":  "env-state.db",
			},
			flags: []string{
				"-a", "http://flag:8000/api",
				"-s", "flag-state.db",
			},
			want: want{
				apiAddress: "http://env:9000/api",
				statePath:  "env-state.db",
				lat:        41.0082,
				lng:        28.9784,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiAddress, cfg.APIAddress)
			assert.Equal(t, tt.want.statePath, cfg.StatePath)
			assert.InDelta(t, tt.want.lat, cfg.Lat, 1e-9)
			assert.InDelta(t, tt.want.lng, cfg.Lng, 1e-9)
		})
	}
}
