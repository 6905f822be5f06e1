package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCheckRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	req.Header.Set("Role", "manager")

	assert.NoError(t, checkRole(req, []string{"manager"}))
	assert.NoError(t, checkRole(req, []string{"member", "manager"}))
	assert.Error(t, checkRole(req, []string{"member"}))

	noRole := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	assert.Error(t, checkRole(noRole, []string{"manager"}))
}

func TestParseObjectIDs(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	ids, err := parseObjectIDs([]string{first.Hex(), second.Hex()})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, first, ids[0])
	assert.Equal(t, second, ids[1])

	_, err = parseObjectIDs([]string{"not-an-id"})
	assert.Error(t, err)

	ids, err = parseObjectIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestValidateCredentials(t *testing.T) {
	assert.True(t, validateCredentials("alice", "Sunshine42!"))
	assert.False(t, validateCredentials("al", "Sunshine42!"))
	assert.False(t, validateCredentials("alice", "short"))
	assert.False(t, validateCredentials("averyveryverylongusername", "Sunshine42!"))
}
