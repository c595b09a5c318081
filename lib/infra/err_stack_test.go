package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel boom")

func TestWrapStackErr(t *testing.T) {
	require.Nil(t, WrapStackErr(nil))

	err := WrapStackErr(fmt.Errorf("load key: %w", errSentinel))
	require.Error(t, err)
	require.True(t, errors.Is(err, errSentinel))
	require.Equal(t, "load key: sentinel boom", err.Error())
	require.Equal(t, "load key: sentinel boom", fmt.Sprintf("%v", err))

	// %+v appends the capture site, which is this test file.
	verbose := fmt.Sprintf("%+v", err)
	require.True(t, strings.HasPrefix(verbose, "load key: sentinel boom\n"))
	require.Contains(t, verbose, "err_stack_test.go:")
}

func TestFrameFormat(t *testing.T) {
	err := WrapStackErr(errSentinel)
	se, ok := err.(*stackErr)
	require.True(t, ok)

	require.Equal(t, "err_stack_test.go", fmt.Sprintf("%s", se.frame))
	require.Equal(t, "TestFrameFormat", fmt.Sprintf("%n", se.frame))
	require.Equal(t,
		fmt.Sprintf("%s:%d", se.frame, se.frame),
		fmt.Sprintf("%v", se.frame),
	)
	require.Contains(t, fmt.Sprintf("%+s", se.frame), "TestFrameFormat\n\t")
}

func TestFrameMarshal(t *testing.T) {
	err := WrapStackErr(errSentinel)
	se, ok := err.(*stackErr)
	require.True(t, ok)

	text, merr := se.frame.MarshalText()
	require.NoError(t, merr)
	require.Contains(t, string(text), "TestFrameMarshal")
	require.Contains(t, string(text), "err_stack_test.go:")

	raw, merr := json.Marshal(se.frame)
	require.NoError(t, merr)
	object := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &object))
	require.Contains(t, object["func"], "TestFrameMarshal")
	require.Contains(t, object["fileAndLine"], "err_stack_test.go:")
}

func TestFrameUnknown(t *testing.T) {
	unknown := Frame(1)
	require.Equal(t, "unknownFile", unknown.file())
	require.Equal(t, 0, unknown.line())
	require.Equal(t, "unknownFunc", unknown.name())

	text, err := unknown.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))

	raw, err := unknown.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"frame":"unknownFrame"}`, string(raw))
}

func TestFuncName(t *testing.T) {
	require.Equal(t, "funcName",
		funcName("github.com/PeddleSpam/redblacktree/lib/infra.funcName"))
	require.Equal(t, "bare", funcName("pkg.bare"))
}
