package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebundle/cmd/rebundle/commands"
	"go.trai.ch/rebundle/internal/adapters/fs"
	"go.trai.ch/rebundle/internal/adapters/logger"
	"go.trai.ch/rebundle/internal/adapters/scan"
	"go.trai.ch/rebundle/internal/adapters/telemetry"
	"go.trai.ch/rebundle/internal/app"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T, loader *mocks.MockConfigLoader, out, logs io.Writer) *commands.CLI {
	t.Helper()
	console := logger.New()
	console.SetOutput(logs)
	scans := scan.NewFactory(fs.NewWalker(), fs.NewHasher())
	a := app.New(loader, console, telemetry.NewNoOpTracer(), fs.NewStater(), scans, nil).WithOutput(out)
	return commands.New(a, console)
}

func TestBuild_FlagsOverrideConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.js"), []byte("main()\n"), 0o600))

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(filepath.Join(root, domain.ConfigFileName)).
		Return(domain.Config{Root: root}, nil).Times(1)

	var out bytes.Buffer
	cli := newCLI(t, mockLoader, &out, io.Discard)
	cli.SetArgs([]string{"build", "--persist", "-k", "web", root})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "built 1 deps")
	assert.FileExists(t, filepath.Join(root, domain.DefaultCacheDirName, "cache-web.json"))
}

func TestBuild_VerboseShowsDiagnostics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := t.TempDir()
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(domain.Config{Root: root}, nil).Times(1)

	var logs bytes.Buffer
	cli := newCLI(t, mockLoader, io.Discard, &logs)
	cli.SetArgs([]string{"build", "--verbose", root})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, logs.String(), "rebuilding")
}

func TestClean_All(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0o750))

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(domain.Config{Root: root}, nil).Times(1)

	cli := newCLI(t, mockLoader, io.Discard, io.Discard)
	cli.SetArgs([]string{"clean", "--all", "--cache-dir", cacheDir})

	require.NoError(t, cli.Execute(context.Background()))
	assert.NoDirExists(t, cacheDir)
}

func TestInspect_RejectsArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli := newCLI(t, mocks.NewMockConfigLoader(ctrl), io.Discard, io.Discard)
	cli.SetArgs([]string{"inspect", "extra"})

	assert.Error(t, cli.Execute(context.Background()))
}

func TestRoot_VersionWithVerbose(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "version flag", args: []string{"--verbose", "--version"}, want: "rebundle version dev\n"},
		{name: "version shorthand", args: []string{"-v", "--verbose"}, want: "rebundle version dev\n"},
		{name: "version command", args: []string{"version", "--verbose"}, want: "rebundle version dev (unknown)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			var out bytes.Buffer
			cli := newCLI(t, mocks.NewMockConfigLoader(ctrl), io.Discard, io.Discard)
			cli.SetOutput(&out)
			cli.SetArgs(tt.args)

			require.NotPanics(t, func() {
				require.NoError(t, cli.Execute(context.Background()))
			})
			assert.Equal(t, tt.want, out.String())
		})
	}
}
