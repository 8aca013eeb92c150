package particles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("fx", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("hello %s", "world")
	l.Warnf("careful")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[fx] INFO: hello world")
	assert.Contains(t, errOut.String(), "[fx] WARN: careful")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "DEBUG: shown 2")
}

func TestSystemLogsWithTag(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSystem()
	s.SetLogger(NewWriterLogger("", false, &out, &errOut))

	s.SetLifeCycle(-1)
	assert.Contains(t, errOut.String(), "particles/"+s.ID().String()[:8])
	assert.Contains(t, errOut.String(), "life cycle")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
}

func TestDefaultLoggerRoutesErrorsWithoutPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("", false, &out, &errOut)

	l.Errorf("x %d", 1)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), " ERROR: x 1")
	assert.NotContains(t, errOut.String(), "[")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}
