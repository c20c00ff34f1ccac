package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/modelcache/internal/adapters/disk"
	"go.trai.ch/modelcache/internal/adapters/fs"
	"go.trai.ch/modelcache/internal/adapters/telemetry"
	"go.trai.ch/modelcache/internal/app"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"modelcache": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			env.Setenv("CI", "true")
			env.Setenv(domain.ConfigEnvVar, "")
			env.Setenv("XDG_CACHE_HOME", filepath.Join(env.WorkDir, ".cache"))
			return nil
		},
	})
}

func newApp(loader *mocks.MockConfigLoader, log *mocks.MockLogger) *app.App {
	return app.New(loader, log, disk.Factory{}, fs.NewKeyDeriver(), telemetry.NewNoOpTracer())
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(mocks.NewMockConfigLoader(ctrl), mockLogger)

	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: mockLogger}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "modelcache version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that a failing command is logged and exits with 1.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLoader.EXPECT().Load("").Return(domain.Config{}, errors.New("load failed"))
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(mockLoader, mockLogger)
	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: mockLogger}, nil
	}

	exitCode := run(context.Background(), []string{"stats"}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_UnknownCommand verifies that cobra errors are reported through the logger.
func TestRun_UnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(mocks.NewMockConfigLoader(ctrl), mockLogger)
	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: mockLogger}, nil
	}

	exitCode := run(context.Background(), []string{"frobnicate"}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}
