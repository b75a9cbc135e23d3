package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeNotFound, "kol not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeValidation))
	})

	t.Run("code found through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", New(CodeValidation, "bad sort field"))
		assert.True(t, HasCode(err, CodeValidation))
	})

	t.Run("inner code found beneath outer code", func(t *testing.T) {
		inner := New(CodeValidation, "bad order")
		err := Wrap(inner, CodeBadRequest, "invalid query")
		assert.True(t, HasCode(err, CodeBadRequest))
		assert.True(t, HasCode(err, CodeValidation))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))

	cause := errors.New("disk gone")
	err := Wrap(cause, CodeInternal, "failed to load")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load: disk gone", err.Error())
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation: http.StatusBadRequest,
		CodeBadRequest: http.StatusBadRequest,
		CodeNotFound:   http.StatusNotFound,
		CodeTimeout:    http.StatusGatewayTimeout,
		CodeRateLimit:  http.StatusTooManyRequests,
		CodeInternal:   http.StatusInternalServerError,
		Code("other"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
