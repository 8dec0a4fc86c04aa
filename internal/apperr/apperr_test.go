package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorfKeepsKind(t *testing.T) {
	err := Errorf(ErrNotFound, "student %s", "21CS001")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "student 21CS001: not found", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Errorf(ErrInvalidArgument, "roll number required"), http.StatusBadRequest},
		{Errorf(ErrNotFound, "no such student"), http.StatusNotFound},
		{Errorf(ErrConflict, "roll number exists"), http.StatusConflict},
		{Errorf(ErrInternal, "db down"), http.StatusInternalServerError},
		{fmt.Errorf("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsInternal(t *testing.T) {
	assert.True(t, IsInternal(errors.New("boom")))
	assert.False(t, IsInternal(Errorf(ErrNotFound, "x")))
}
