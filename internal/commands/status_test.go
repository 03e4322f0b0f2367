package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/supportchat/internal/api"
	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
)

func TestRunStatus(t *testing.T) {
	mock := &api.MockClient{StatusVal: &models.SessionStatus{
		SessionID: "sess-9",
		Active:    true,
		Raw:       `{"sessionId":"sess-9","active":true}`,
	}}
	env := newTestEnv(t, mock)

	require.NoError(t, runStatus(context.Background(), env.deps, &globalFlags{}, false))

	out := env.stdout.String()
	assert.Contains(t, out, "http://assistant.test")
	assert.Contains(t, out, "sess-9")
	assert.Contains(t, out, "active")
	assert.Equal(t, 1, mock.StatusCalls)
	assert.Zero(t, mock.AskCount())
}

func TestRunStatus_NoSession(t *testing.T) {
	mock := &api.MockClient{StatusVal: &models.SessionStatus{}}
	env := newTestEnv(t, mock)

	require.NoError(t, runStatus(context.Background(), env.deps, &globalFlags{}, false))
	assert.Contains(t, env.stdout.String(), "inactive")
}

func TestRunStatus_Raw(t *testing.T) {
	mock := &api.MockClient{StatusVal: &models.SessionStatus{Raw: `{"active":false}`}}
	env := newTestEnv(t, mock)

	require.NoError(t, runStatus(context.Background(), env.deps, &globalFlags{}, true))
	assert.Equal(t, "{\"active\":false}\n", env.stdout.String())
}

func TestRunStatus_Error(t *testing.T) {
	mock := &api.MockClient{StatusErr: apierrors.NewAPIError(401, "http://assistant.test/session-status", "unauthorized")}
	env := newTestEnv(t, mock)

	err := runStatus(context.Background(), env.deps, &globalFlags{}, false)
	require.Error(t, err)
	assert.Equal(t, 401, apierrors.GetHTTPStatus(err))
	assert.Contains(t, env.stderr.String(), "Session status failed")
	assert.Empty(t, env.stdout.String())
}
