package envstruct_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/intervalplan/internal/envstruct"
)

type serverConfig struct {
	Addr        string        `env:"ADDR"`
	RestSeconds int           `env:"REST_SECONDS" envDefault:"30"`
	CatalogTTL  time.Duration `env:"CATALOG_TTL" envDefault:"5m"`
	Verbose     bool          `env:"VERBOSE" envDefault:"false"`
	// Untagged fields are left alone.
	Note string
}

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    serverConfig
		wantErr error
	}{
		{
			name:    "defaults",
			env:     map[string]string{"ADDR": "localhost:0"},
			want:    serverConfig{Addr: "localhost:0", RestSeconds: 30, CatalogTTL: 5 * time.Minute, Verbose: false, Note: ""},
			wantErr: nil,
		},
		{
			name: "overrides",
			env: map[string]string{
				"ADDR":         ":8080",
				"REST_SECONDS": "15",
				"CATALOG_TTL":  "0s",
				"VERBOSE":      "true",
				"Note":         "ignored",
			},
			want:    serverConfig{Addr: ":8080", RestSeconds: 15, CatalogTTL: 0, Verbose: true, Note: ""},
			wantErr: nil,
		},
		{
			name:    "missing variable without default",
			env:     map[string]string{},
			want:    serverConfig{},
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name:    "invalid int",
			env:     map[string]string{"ADDR": ":8080", "REST_SECONDS": "thirty"},
			want:    serverConfig{},
			wantErr: envstruct.ErrParse,
		},
		{
			name:    "invalid duration",
			env:     map[string]string{"ADDR": ":8080", "CATALOG_TTL": "5 minutes"},
			want:    serverConfig{},
			wantErr: envstruct.ErrParse,
		},
		{
			name:    "invalid bool",
			env:     map[string]string{"ADDR": ":8080", "VERBOSE": "sometimes"},
			want:    serverConfig{},
			wantErr: envstruct.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got serverConfig
			err := envstruct.Populate(&got, env(tt.env))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() unexpected error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopulate_reportsEveryField(t *testing.T) {
	var cfg serverConfig
	err := envstruct.Populate(&cfg, env(map[string]string{"REST_SECONDS": "x", "CATALOG_TTL": "y"}))
	if !errors.Is(err, envstruct.ErrEnvNotSet) || !errors.Is(err, envstruct.ErrParse) {
		t.Errorf("Populate() error = %v, want both missing and parse errors", err)
	}
}

func TestPopulate_invalidTarget(t *testing.T) {
	tests := map[string]any{
		"nil":         nil,
		"not pointer": serverConfig{},
		"not struct":  new(int),
		"unsupported": &struct {
			Ratio float64 `env:"RATIO"`
		}{Ratio: 0},
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			if err := envstruct.Populate(v, env(map[string]string{"RATIO": "0.5"})); !errors.Is(err, envstruct.ErrInvalidValue) {
				t.Errorf("Populate() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}
