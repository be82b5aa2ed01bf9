package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("worker").Named("handler").With(logging.String("topic", "t1"))

	child.Warn("skipped", logging.String("topic", "t2"))

	msg, ok := root.Find("warn", "skipped")
	require.True(t, ok)
	assert.Equal(t, "worker.handler", msg.Logger)
	v, _ := msg.Field("topic")
	assert.Equal(t, "t2", v)
	assert.Len(t, msg.Fields, 2)

	_, ok = root.Find("info", "skipped")
	assert.False(t, ok)
}

func TestMockLogger_SetLevel(t *testing.T) {
	root := testutil.NewMockLogger()
	root.Named("x").SetLevel("debug")
	assert.Equal(t, "debug", root.Level())
	assert.NoError(t, root.Sync())
}
