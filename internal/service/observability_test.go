package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/metraj/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUseCaseObserver_RecordsUseCases(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, testutil.NewTestLineItem("", "A1"))

	_, err := NewValidationService(r.projects, r.items, obs).Validate(ctx, p.ID)
	require.NoError(t, err)
	_, err = NewValidationService(r.projects, r.items, obs).Validate(ctx, "missing")
	require.Error(t, err)

	entries := logs.FilterMessage("service_use_case").All()
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "service", ok.LoggerName)
	fields := ok.ContextMap()
	assert.Equal(t, "validation.validate", fields["use_case"])
	assert.Equal(t, true, fields["success"])
	assert.EqualValues(t, 1, fields["items"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, false, failed.ContextMap()["success"])
	assert.Contains(t, failed.ContextMap()["error"], "not found")
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
}
