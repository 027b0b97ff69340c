package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/otpverify/internal/verification/usecase.(*Controller).tick(0xc000)
	/src/otpverify/internal/verification/usecase/countdown.go:58 +0x1d
github.com/shandysiswandi/otpverify/internal/pkg/goroutine.(*Manager).Go.func1()
	/src/otpverify/internal/pkg/goroutine/goroutine.go:80
`)

	assert.Equal(t, []string{
		"internal/verification/usecase/countdown.go:58",
		"internal/pkg/goroutine/goroutine.go:80",
	}, InternalPaths(stack))
}

func TestInternalPaths_NoInternalFrames(t *testing.T) {
	assert.Empty(t, InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/tmp/main.go:3 +0x1\n")))
}
