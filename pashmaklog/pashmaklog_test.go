package pashmaklog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parsampsh/pashmak-core/pashmaklog"
)

func TestPrintfWritesLevelPrefixedLine(t *testing.T) {
	var out strings.Builder
	l := pashmaklog.New(&out)

	l.Printf("IMPORT", "resolved %s", "math")

	assert.Equal(t, "IMPORT: resolved math\n", out.String())
}

func TestPrintfWithNoLevelOmitsPrefix(t *testing.T) {
	var out strings.Builder
	l := pashmaklog.New(&out)

	l.Printf("", "plain message")

	assert.Equal(t, "plain message\n", out.String())
}

func TestLeveledfBindsLevelOnce(t *testing.T) {
	var out strings.Builder
	l := pashmaklog.New(&out)

	importf := l.Leveledf("IMPORT")
	importf("skip %s", "math")

	assert.Equal(t, "IMPORT: skip math\n", out.String())
}

func TestDebugfAndErrorfUseTheirOwnLevel(t *testing.T) {
	var out strings.Builder
	l := pashmaklog.New(&out)

	l.Debugf("frame %d shutting down", 2)
	l.Errorf("module %s not found", "net")

	assert.Equal(t, "DEBUG: frame 2 shutting down\nERROR: module net not found\n", out.String())
}

func TestDiscardDropsEverything(t *testing.T) {
	assert.NotPanics(t, func() {
		pashmaklog.Discard.Printf("IMPORT", "resolved %s", "math")
	})
}

func TestNewWithNilWriterDiscards(t *testing.T) {
	l := pashmaklog.New(nil)
	assert.NotPanics(t, func() {
		l.Printf("DEBUG", "anything")
	})
}
