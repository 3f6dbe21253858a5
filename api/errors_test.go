package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/pkg/errcode"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, httpStatus(errcode.NotFoundf("contact 1 not found")))
	assert.Equal(t, http.StatusConflict, httpStatus(errcode.Conflictf("already exists")))
	assert.Equal(t, http.StatusConflict, httpStatus(errcode.FailedPreconditionf("product is archived")))
	assert.Equal(t, http.StatusBadRequest, httpStatus(errcode.InvalidArgumentf("bad input")))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(errors.New("driver: bad connection")))
}
