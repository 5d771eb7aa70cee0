package rslog_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjdev/raid6store/internal/rslog"
)

func TestInitSetsLevel(t *testing.T) {
	require.NoError(t, rslog.Init(rslog.LevelWarn))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	require.NoError(t, rslog.Init(rslog.LevelDebug))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, rslog.Init("not-a-level"))
}
