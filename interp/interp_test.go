package interp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/interp"
)

func run(t *testing.T, source string) (string, *interp.Interpreter) {
	t.Helper()
	var out strings.Builder
	ip := interp.New(interp.WithOutput(&out), interp.WithTestMode(true))
	err := ip.Run(context.Background(), source, "test.pm", nil)
	require.NoError(t, err)
	return out.String(), ip
}

func TestPrintWritesToOutput(t *testing.T) {
	out, ip := run(t, `print "hello"`)
	assert.Equal(t, "hello\n", out)
	assert.Empty(t, ip.TestErrors())
}

func TestAddViaMemSlot(t *testing.T) {
	out, _ := run(t, `
mem 2 + 3
print ^
`)
	assert.Equal(t, "5\n", out)
}

func TestSectionGotoSkipsIntermediateCommands(t *testing.T) {
	out, _ := run(t, `
goto after
print "skipped"
section after
print "reached"
`)
	assert.Equal(t, "reached\n", out)
}

func TestTryEndtryCatchesRaisedError(t *testing.T) {
	out, ip := run(t, `
try rescue
$x = 1 / 0
print "unreachable"
goto done
section rescue
print "caught"
section done
`)
	assert.Equal(t, "caught\n", out)
	assert.Empty(t, ip.TestErrors())
}

func TestUncaughtErrorRecordedInTestMode(t *testing.T) {
	_, ip := run(t, `
$x = 1 / 0
`)
	require.Len(t, ip.TestErrors(), 1)
	assert.Equal(t, "ZeroDivisionError", ip.TestErrors()[0].Kind)
}

func TestNamespaceUseResolvesUnqualifiedCall(t *testing.T) {
	out, _ := run(t, `
namespace math
func square
  mem $arg0 * $arg0
endfunc
endnamespace

use math.

square 5
print ^
`)
	assert.Equal(t, "25\n", out)
}

func TestClassNewInitAndMethod(t *testing.T) {
	out, _ := run(t, `
class Counter
  $count = 0

  func init
    $this->count = $arg0
  endfunc

  func bump
    $this->count = $this->count + 1
    mem $this->count
  endfunc
endclass

new Counter 10
$c = ^

$c->bump()
print ^
`)
	assert.Equal(t, "11\n", out)
}

func TestWhileBreakContinue(t *testing.T) {
	out, _ := run(t, `
$i = 0
$sum = 0
while $i < 10
  $i = $i + 1
  gotoif skip $i % 2 == 0
  goto body
  section skip
  continue
  section body
  $sum = $sum + $i
  gotoif stop $i == 7
  goto loopend
  section stop
  break
  section loopend
endwhile
print $sum
`)
	assert.Equal(t, "16\n", out)
}

func TestWhileLoopExitsOnFalseCondition(t *testing.T) {
	out, _ := run(t, `
$i = 0
while $i < 3
  print $i
  $i = $i + 1
endwhile
print "done"
`)
	assert.Equal(t, "0\n1\n2\ndone\n", out)
}

func TestIfElifElseCascade(t *testing.T) {
	out, _ := run(t, `
$n = 2
if $n == 1
  print "one"
elif $n == 2
  print "two"
else
  print "other"
endif
`)
	assert.Equal(t, "two\n", out)
}

func TestFunctionCallIsFrameIsolated(t *testing.T) {
	out, _ := run(t, `
$x = 1

func setx
  $x = 99
endfunc

setx
print $x
`)
	assert.Equal(t, "1\n", out)
}

func TestEvalSharesCallerFrame(t *testing.T) {
	out, _ := run(t, `
$x = 1
eval "$x = 2"
print $x
`)
	assert.Equal(t, "2\n", out)
}

func TestExpressionCallWithMultipleArgsPacksMem(t *testing.T) {
	out, _ := run(t, `
func add
  $args = ^
  mem $args[0] + $args[1]
endfunc

print add(3, 4)
`)
	assert.Equal(t, "7\n", out)
}
