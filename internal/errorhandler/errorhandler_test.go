package errorhandler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func install(t *testing.T, logToConsole, exitOnCritical, recoveryEnabled bool) (*bytes.Buffer, *[]int) {
	t.Helper()
	var buf bytes.Buffer
	var codes []int

	Init(logToConsole, exitOnCritical, recoveryEnabled)
	h := get()
	h.console = &buf
	h.exit = func(code int) { codes = append(codes, code) }

	t.Cleanup(func() { Init(true, false, true) })
	return &buf, &codes
}

func TestHandleCriticalError(t *testing.T) {
	buf, codes := install(t, true, true, true)

	HandleCriticalError(errors.New("disk full"), "Failed to save profile")

	assert.Equal(t, "Error: Failed to save profile: disk full\n", buf.String())
	assert.Equal(t, []int{1}, *codes)
}

func TestHandleCriticalErrorNil(t *testing.T) {
	buf, codes := install(t, true, true, true)

	HandleCriticalError(nil, "nothing")

	assert.Empty(t, buf.String())
	assert.Empty(t, *codes)
}

func TestHandleCriticalErrorQuiet(t *testing.T) {
	buf, codes := install(t, false, false, true)

	HandleCriticalError(errors.New("boom"), "ctx")

	assert.Empty(t, buf.String())
	assert.Empty(t, *codes)
}

func TestHandlePanicRecovers(t *testing.T) {
	buf, codes := install(t, true, false, true)

	assert.NotPanics(t, func() {
		defer HandlePanic()
		panic("kaboom")
	})
	assert.Contains(t, buf.String(), "unexpected panic: kaboom")
	assert.Empty(t, *codes)
}

func TestHandlePanicRepanicsWhenRecoveryDisabled(t *testing.T) {
	install(t, false, false, false)

	assert.PanicsWithValue(t, "kaboom", func() {
		defer HandlePanic()
		panic("kaboom")
	})
}

func TestHandlePanicNoPanic(t *testing.T) {
	buf, _ := install(t, true, true, true)

	func() {
		defer HandlePanic()
	}()
	assert.Empty(t, buf.String())
}

func TestRunReturnsCode(t *testing.T) {
	install(t, false, false, true)

	assert.Equal(t, 0, Run(func() int { return 0 }))
	assert.Equal(t, 3, Run(func() int { return 3 }))
}

func TestRunRecoveredPanicFails(t *testing.T) {
	buf, codes := install(t, true, false, true)

	code := Run(func() int {
		panic("boom")
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "unexpected panic: boom")
	assert.Empty(t, *codes)
}
