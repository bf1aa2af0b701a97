package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: levelTrace},
		{in: "TRACE", want: levelTrace},
		{in: "debug", want: slog.LevelDebug},
		{in: "warn", want: slog.LevelWarn},
		{in: "debug+1", want: slog.LevelDebug + 1},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ARGEN_NAMESPACE", "agea")

	viper.SetEnvPrefix("ARGEN")
	viper.AutomaticEnv()

	c := NewGenerateCommand()
	require.NoError(t, c.ParseFlags([]string{
		"--package-name", "root",
		"--config-list", "root.ar.cfg",
		"--output", "out",
		"--exclude", "include/root/tests/**",
		"--exclude", "include/root/private/**",
	}))

	opts, err := loadOptions(c)
	require.NoError(t, err)
	require.Equal(t, "root", opts.PackageName)
	require.Equal(t, "agea", opts.Namespace)
	require.Equal(t, "root.ar.cfg", opts.ConfigList)
	require.Equal(t, "out", opts.OutputDir)
	require.Equal(t, ".", opts.SourceDir)
	require.Equal(t, []string{"include/root/tests/**", "include/root/private/**"}, opts.Exclude)
}
