package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKindAndStatus(t *testing.T) {
	err := New(ErrConflict, "Please checkout or clear cart")
	require.True(t, errors.Is(err, ErrConflict))
	require.Equal(t, ErrConflict, Kind(err))
	require.Equal(t, http.StatusConflict, HTTPStatus(err))
	require.Equal(t, "Please checkout or clear cart", Message(err))

	wrapped := errors.Wrap(err, "add item")
	require.Equal(t, ErrConflict, Kind(wrapped))
	require.Equal(t, "Please checkout or clear cart", Message(wrapped))
}

func TestPersistenceHidesCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Persistence(cause, "Error updating cart")
	require.True(t, errors.Is(err, ErrPersistence))
	require.True(t, errors.Is(err, cause))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	require.Equal(t, genericMessage, Message(err))
}

func TestPersistenceKeepsDomainKind(t *testing.T) {
	domain := New(ErrItemUnavailable, "Cannot add inactive item")
	require.Same(t, domain, Persistence(domain, "Error updating cart"))
	require.Nil(t, Persistence(nil, "unused"))
}

func TestUnclassified(t *testing.T) {
	err := errors.New("boom")
	require.Nil(t, Kind(err))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	require.Equal(t, genericMessage, Message(err))
}
